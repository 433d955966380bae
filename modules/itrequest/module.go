package itrequest

import (
	"embed"

	"github.com/mexilacteos/itdesk/modules/directory/services"
	"github.com/mexilacteos/itdesk/modules/itrequest/infrastructure/persistence"
	"github.com/mexilacteos/itdesk/modules/itrequest/presentation/controllers"
	itservices "github.com/mexilacteos/itdesk/modules/itrequest/services"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/configuration"
)

//go:embed infrastructure/persistence/migrations/*.sql
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "itrequest"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterMigrations(&migrationFiles)

	conf := configuration.Use()
	directory := app.Service(services.DirectoryService{}).(*services.DirectoryService)

	requestService := itservices.NewRequestService(
		persistence.NewRequestRepository(),
		persistence.NewSequenceAllocator(),
		directory,
		app.EventPublisher(),
		conf.FolioNamespace,
	)
	app.RegisterServices(requestService)

	notifier := itservices.NewRequestNotifier(
		app.DB(),
		directory,
		persistence.NewActivityScheduler(),
		persistence.NewNotificationSink(),
		app.Logger(),
	)
	notifier.Register(app.EventPublisher())

	app.RegisterControllers(
		controllers.NewRequestAPIController(app),
	)
	return nil
}
