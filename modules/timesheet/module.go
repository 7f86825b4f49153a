package timesheet

import (
	"embed"

	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
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

	entries := persistence.NewTimeEntryRepository()
	approvals := persistence.NewApprovalRepository()
	projects := persistence.NewProjectRepository()
	gate := persistence.NewStoreGate()

	app.RegisterServices(
		services.NewProjectService(projects, gate, app.EventPublisher()),
		services.NewTimeEntryService(entries, approvals, gate, app.EventPublisher()),
		services.NewApprovalService(entries, approvals, projects, gate, app.EventPublisher()),
	)
	return nil
}

func (m *Module) Name() string {
	return "timesheet"
}
