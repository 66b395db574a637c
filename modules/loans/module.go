package loans

import (
	"embed"

	directorypersistence "github.com/harborcredit/loanscreen/modules/directory/infrastructure/persistence"
	"github.com/harborcredit/loanscreen/modules/loans/infrastructure/persistence"
	"github.com/harborcredit/loanscreen/modules/loans/infrastructure/scoringstub"
	"github.com/harborcredit/loanscreen/modules/loans/presentation/controllers"
	"github.com/harborcredit/loanscreen/modules/loans/services"
	"github.com/harborcredit/loanscreen/pkg/application"
	"github.com/harborcredit/loanscreen/pkg/configuration"
	"github.com/harborcredit/loanscreen/pkg/types"
)

//go:embed infrastructure/persistence/schema/loans-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	conf := configuration.Use()
	clock := types.RealClock()

	assignments := services.NewAssignmentService(
		directorypersistence.NewOfficerRepository(),
		conf.Assignment.CapacityCeiling,
		clock,
	)
	workflow := services.NewWorkflowService(
		persistence.NewApplicationRepository(),
		persistence.NewWorkflowHistoryRepository(),
		assignments,
		scoringstub.New(),
		app.EventPublisher(),
		clock,
	)
	compliance := services.NewComplianceService(
		workflow,
		persistence.NewDocRequestRepository(),
		assignments,
		clock,
	)

	app.RegisterServices(assignments, workflow, compliance)
	app.RegisterControllers(
		controllers.NewApplicationsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "loans"
}
