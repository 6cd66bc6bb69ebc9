package app

import (
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/clients/redis"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Property  services.PropertyService
	Lead      services.LeadService
	Deal      services.DealService
	Dashboard services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// The dashboard cache is optional: without REDIS_ADDR every request
	// computes from the store.
	dashboardCache, err := redis.NewDashboardCache(log)
	if err != nil {
		log.Warn("Dashboard cache disabled", "error", err)
		dashboardCache = nil
	}

	return Services{
		Auth:      services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:      services.NewUserService(db, log, reposet.User),
		Property:  services.NewPropertyService(db, log, reposet.Property, reposet.Deal),
		Lead:      services.NewLeadService(db, log, reposet.Lead, reposet.User),
		Deal:      services.NewDealService(db, log, reposet.Deal, reposet.Property, reposet.Lead),
		Dashboard: services.NewDashboardService(db, log, reposet.Property, reposet.Lead, reposet.Deal, dashboardCache),
	}
}
