package modules

import (
	"github.com/mexilacteos/itdesk/modules/directory"
	"github.com/mexilacteos/itdesk/modules/itrequest"
	"github.com/mexilacteos/itdesk/pkg/application"
)

// BuiltInModules is registration-ordered: itrequest resolves the directory
// services at registration time, so directory loads first.
var BuiltInModules = []application.Module{
	directory.NewModule(),
	itrequest.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
