package directory

import (
	"embed"

	"github.com/mexilacteos/itdesk/modules/directory/infrastructure/persistence"
	"github.com/mexilacteos/itdesk/modules/directory/presentation/controllers"
	"github.com/mexilacteos/itdesk/modules/directory/services"
	"github.com/mexilacteos/itdesk/pkg/application"
)

//go:embed infrastructure/persistence/migrations/*.sql
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "directory"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterMigrations(&migrationFiles)

	app.RegisterServices(
		services.NewDirectoryService(persistence.NewEmployeeRepository()),
		services.NewEquipmentService(persistence.NewEquipmentRepository()),
	)

	app.RegisterControllers(
		controllers.NewDirectoryAPIController(app),
	)
	return nil
}
