package application_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/pkg/application"
	"github.com/iota-uz/timesheet/pkg/eventbus"
)

type entryService struct{ name string }

type reportService struct{ name string }

func newTestApp() application.Application {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
}

func TestApplication_ServiceLookup(t *testing.T) {
	app := newTestApp()
	app.RegisterServices(
		&entryService{name: "entries"},
		&reportService{name: "reports"},
	)

	got, ok := app.Service(&entryService{}).(*entryService)
	require.True(t, ok)
	assert.Equal(t, "entries", got.name)

	report, ok := app.Service(&reportService{}).(*reportService)
	require.True(t, ok)
	assert.Equal(t, "reports", report.name)
}

func TestApplication_ServiceNotRegisteredPanics(t *testing.T) {
	app := newTestApp()
	require.Panics(t, func() {
		app.Service(&entryService{})
	})
}

type countingModule struct {
	name       string
	registered *[]string
}

func (m *countingModule) Register(app application.Application) error {
	*m.registered = append(*m.registered, m.name)
	return nil
}

func (m *countingModule) Name() string { return m.name }

func TestRegisterModules_Order(t *testing.T) {
	app := newTestApp()
	var order []string
	err := application.RegisterModules(app,
		&countingModule{name: "core", registered: &order},
		&countingModule{name: "timesheet", registered: &order},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "timesheet"}, order)
}
