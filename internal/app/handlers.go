package app

import (
	"github.com/dealflowhq/dealflow-backend/internal/handlers"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Property  *handlers.PropertyHandler
	Lead      *handlers.LeadHandler
	Deal      *handlers.DealHandler
	Dashboard *handlers.DashboardHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(services.Auth),
		User:      handlers.NewUserHandler(services.User),
		Property:  handlers.NewPropertyHandler(services.Property),
		Lead:      handlers.NewLeadHandler(services.Lead),
		Deal:      handlers.NewDealHandler(services.Deal),
		Dashboard: handlers.NewDashboardHandler(services.Dashboard),
	}
}
