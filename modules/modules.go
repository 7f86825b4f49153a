package modules

import (
	"github.com/iota-uz/timesheet/modules/core"
	"github.com/iota-uz/timesheet/modules/logging"
	"github.com/iota-uz/timesheet/modules/timesheet"
	"github.com/iota-uz/timesheet/pkg/application"
)

// BuiltInModules is the registration order: core owns users, timesheet
// builds on them, logging subscribes to both.
var BuiltInModules = []application.Module{
	core.NewModule(),
	timesheet.NewModule(),
	logging.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	return application.RegisterModules(app, mods...)
}
