package app

import (
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Property  repos.PropertyRepo
	Lead      repos.LeadRepo
	Deal      repos.DealRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Property:  repos.NewPropertyRepo(db, log),
		Lead:      repos.NewLeadRepo(db, log),
		Deal:      repos.NewDealRepo(db, log),
	}
}
