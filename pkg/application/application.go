package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"reflect"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/pkg/eventbus"
)

// Module is a self-registering feature unit: it contributes services,
// controllers and schema files to the application.
type Module interface {
	Register(app Application) error
	Name() string
}

// Controller registers a set of routes under its own prefix.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type Application interface {
	Pool() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...any)
	Service(service any) any
	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	Migrations() *SchemaRegistry
	RegisterModules(modules ...Module) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:       opts.Pool,
		eventBus:   opts.EventBus,
		logger:     opts.Logger,
		services:   map[reflect.Type]any{},
		migrations: &SchemaRegistry{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]any
	controllers []Controller
	migrations  *SchemaRegistry
}

func (app *application) Pool() *pgxpool.Pool               { return app.pool }
func (app *application) EventPublisher() eventbus.EventBus { return app.eventBus }
func (app *application) Logger() *logrus.Logger            { return app.logger }

func (app *application) RegisterServices(services ...any) {
	for _, svc := range services {
		t := reflect.TypeOf(svc)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		app.services[t] = svc
	}
}

// Service looks a registered service up by its (value) type, e.g.
// app.Service(services.WorkflowService{}).
func (app *application) Service(service any) any {
	t := reflect.TypeOf(service)
	svc, ok := app.services[t]
	if !ok {
		panic(fmt.Sprintf("service %s not registered", t.Name()))
	}
	return svc
}

func (app *application) RegisterControllers(controllers ...Controller) {
	app.controllers = append(app.controllers, controllers...)
}

func (app *application) Controllers() []Controller {
	return app.controllers
}

func (app *application) Migrations() *SchemaRegistry {
	return app.migrations
}

func (app *application) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(app); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
		app.logger.WithField("module", m.Name()).Debug("module registered")
	}
	return nil
}

// SchemaRegistry collects embedded per-module schema files and applies them
// in lexical order at startup. Statements are idempotent (CREATE IF NOT
// EXISTS), so repeated startups are safe.
type SchemaRegistry struct {
	filesystems []*embed.FS
}

func (s *SchemaRegistry) RegisterSchema(fsys *embed.FS) {
	s.filesystems = append(s.filesystems, fsys)
}

func (s *SchemaRegistry) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, fsys := range s.filesystems {
		var paths []string
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".sql") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return err
		}
		sort.Strings(paths)
		for _, path := range paths {
			ddl, err := fsys.ReadFile(path)
			if err != nil {
				return err
			}
			if _, err := pool.Exec(ctx, string(ddl)); err != nil {
				return fmt.Errorf("apply schema %s: %w", path, err)
			}
		}
	}
	return nil
}
