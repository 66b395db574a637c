package directory

import (
	"embed"

	"github.com/harborcredit/loanscreen/modules/directory/infrastructure/persistence"
	"github.com/harborcredit/loanscreen/modules/directory/presentation/controllers"
	"github.com/harborcredit/loanscreen/modules/directory/services"
	"github.com/harborcredit/loanscreen/pkg/application"
)

//go:embed infrastructure/persistence/schema/directory-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)
	app.RegisterServices(
		services.NewDirectoryService(persistence.NewOfficerRepository()),
	)
	app.RegisterControllers(
		controllers.NewOfficersController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "directory"
}
