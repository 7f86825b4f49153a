// Package application wires modules into a running service: it carries the
// shared infrastructure (pool, event bus, logger), a service registry keyed
// by concrete type, and the merged schema migrations.
package application

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/pkg/eventbus"
)

// Module is a self-contained feature area that registers its services and
// schema with the application.
type Module interface {
	Register(app Application) error
	Name() string
}

type Application interface {
	Pool() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	RegisterSchema(fsys *embed.FS, dir string)
	RunMigrations(ctx context.Context, db *sql.DB) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:     opts.Pool,
		eventBus: opts.EventBus,
		logger:   opts.Logger,
		services: map[reflect.Type]interface{}{},
	}
}

type schemaSource struct {
	fsys *embed.FS
	dir  string
}

type application struct {
	pool     *pgxpool.Pool
	eventBus eventbus.EventBus
	logger   *logrus.Logger
	services map[reflect.Type]interface{}
	schemas  []schemaSource
}

func (a *application) Pool() *pgxpool.Pool               { return a.pool }
func (a *application) EventPublisher() eventbus.EventBus { return a.eventBus }
func (a *application) Logger() *logrus.Logger            { return a.logger }

func (a *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		a.services[reflect.TypeOf(service)] = service
	}
}

// Service returns the registered instance matching the type of the given
// value. It is the lookup seam for the surrounding API layer: controllers
// resolve their services through it instead of holding constructor wiring.
// It panics when the service was never registered, which is a wiring bug
// rather than a runtime condition.
func (a *application) Service(service interface{}) interface{} {
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %T not registered", service))
	}
	return svc
}

func (a *application) RegisterSchema(fsys *embed.FS, dir string) {
	a.schemas = append(a.schemas, schemaSource{fsys: fsys, dir: dir})
}

// RunMigrations applies every registered schema in registration order.
// Version numbers are disjoint across modules, so the shared goose version
// table stays consistent between runs.
func (a *application) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, src := range a.schemas {
		goose.SetBaseFS(src.fsys)
		if err := goose.UpContext(ctx, db, src.dir); err != nil {
			return fmt.Errorf("migrate %s: %w", src.dir, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// RegisterModules runs each module's registration hook in order.
func RegisterModules(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return fmt.Errorf("register module %s: %w", module.Name(), err)
		}
	}
	return nil
}
