package main

import (
	"embed"

	"github.com/spf13/cobra"

	"github.com/mexilacteos/itdesk/modules"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/configuration"
	"github.com/mexilacteos/itdesk/pkg/eventbus"
	"github.com/mexilacteos/itdesk/pkg/schema"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			filesystems, err := collectMigrations()
			if err != nil {
				return err
			}
			return schema.Migrate(cmd.Context(), conf.Database.ConnectionString(), filesystems, conf.Logger())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration of each module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			filesystems, err := collectMigrations()
			if err != nil {
				return err
			}
			return schema.Rollback(cmd.Context(), conf.Database.ConnectionString(), filesystems, conf.Logger())
		},
	})
	return cmd
}

// collectMigrations loads the modules against a throwaway application just
// to gather their embedded migration files. Registration only wires services
// and controllers; nothing touches the database until a request runs.
func collectMigrations() ([]*embed.FS, error) {
	logger := configuration.Use().Logger()
	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return nil, err
	}
	return app.Migrations(), nil
}
