// Package persistence selects the credential store backing both actor variants.
package persistence

import (
	"log/slog"

	"platter/config"
	"platter/internal/domain/entity"
	"platter/internal/domain/repository"
	"platter/internal/infra/persistence/memory"
	"platter/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// StoreParams defines the dependencies for building the actor repositories.
type StoreParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	// Connect is only called when the postgres driver is selected.
	Connect postgres.Connector
}

// Stores carries one repository per actor variant, named so the auth
// workflows can request the one they serve.
type Stores struct {
	fx.Out

	Users    repository.ActorRepository `name:"users"`
	Partners repository.ActorRepository `name:"partners"`
}

// NewStores builds the repositories for the configured driver.
func NewStores(params StoreParams) (Stores, error) {
	driver := config.DriverPostgres
	if params.Config.Database != nil && params.Config.Database.Driver != "" {
		driver = params.Config.Database.Driver
	}

	switch driver {
	case config.DriverMemory:
		params.Logger.Warn("Using in-memory credential store; accounts are lost on restart")

		return Stores{
			Users:    memory.NewActorRepository(entity.ActorKindUser),
			Partners: memory.NewActorRepository(entity.ActorKindPartner),
		}, nil
	case config.DriverPostgres:
		db, err := params.Connect()
		if err != nil {
			return Stores{}, err
		}

		return Stores{
			Users:    postgres.NewUserRepository(db),
			Partners: postgres.NewFoodPartnerRepository(db),
		}, nil
	default:
		return Stores{}, errors.Errorf("unknown database driver %q", driver)
	}
}
