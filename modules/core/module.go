package core

import (
	"embed"

	"github.com/iota-uz/timesheet/modules/core/infrastructure/persistence"
	"github.com/iota-uz/timesheet/modules/core/services"
	"github.com/iota-uz/timesheet/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&migrationFiles, "infrastructure/persistence/schema")
	app.RegisterServices(
		services.NewUserService(
			persistence.NewUserRepository(),
			app.EventPublisher(),
		),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
