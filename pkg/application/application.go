package application

import (
	"embed"
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/mexilacteos/itdesk/pkg/eventbus"
)

// Controller is a presentation unit that mounts its routes on the shared
// router. Key must be unique; re-registering a key replaces the previous
// controller.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a feature's services and controllers into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	RegisterControllers(controllers ...Controller)
	Controllers() []Controller
	RegisterMigrations(fs *embed.FS)
	Migrations() []*embed.FS
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:           opts.Pool,
		eventPublisher: opts.EventBus,
		logger:         opts.Logger,
		services:       map[reflect.Type]interface{}{},
		controllers:    map[string]Controller{},
	}
}

type application struct {
	pool            *pgxpool.Pool
	eventPublisher  eventbus.EventBus
	logger          *logrus.Logger
	services        map[reflect.Type]interface{}
	controllers     map[string]Controller
	controllerOrder []string
	migrations      []*embed.FS
}

func (a *application) DB() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventPublisher
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		a.services[serviceType] = service
	}
}

// Service looks up a registered service by the (value) type of its zero
// instance, e.g. app.Service(services.RequestService{}).
func (a *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, ok := a.services[serviceType]
	if !ok {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (a *application) RegisterControllers(controllers ...Controller) {
	for _, controller := range controllers {
		key := controller.Key()
		if _, exists := a.controllers[key]; !exists {
			a.controllerOrder = append(a.controllerOrder, key)
		}
		a.controllers[key] = controller
	}
}

// RegisterMigrations collects a module's embedded migration files. Version
// numbers are global across modules; registration order only affects which
// files goose sees first.
func (a *application) RegisterMigrations(fs *embed.FS) {
	a.migrations = append(a.migrations, fs)
}

func (a *application) Migrations() []*embed.FS {
	return a.migrations
}

func (a *application) Controllers() []Controller {
	out := make([]Controller, 0, len(a.controllers))
	for _, key := range a.controllerOrder {
		out = append(out, a.controllers[key])
	}
	return out
}
