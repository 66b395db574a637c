package modules

import (
	"github.com/harborcredit/loanscreen/modules/directory"
	"github.com/harborcredit/loanscreen/modules/loans"
	"github.com/harborcredit/loanscreen/pkg/application"
)

// BuiltInModules lists every module in registration order. Directory comes
// first so its schema and services are in place before loans wires against
// them.
var BuiltInModules = []application.Module{
	directory.NewModule(),
	loans.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	return app.RegisterModules(mods...)
}
