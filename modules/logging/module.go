package logging

import (
	"embed"

	corepersistence "github.com/iota-uz/timesheet/modules/core/infrastructure/persistence"
	"github.com/iota-uz/timesheet/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/timesheet/modules/logging/services"
	"github.com/iota-uz/timesheet/pkg/application"
	"github.com/iota-uz/timesheet/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&migrationFiles, "infrastructure/persistence/schema")

	logs := persistence.NewAuditLogRepository()
	app.RegisterServices(
		services.NewAuditService(logs, corepersistence.NewUserRepository()),
	)

	recorder := services.NewRecorder(logs, app.Pool(), app.Logger(), configuration.Use().StoreTimeout)
	recorder.Register(app.EventPublisher())
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
