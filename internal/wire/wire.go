//go:build wireinject
// +build wireinject

package wire

import (
	"bizdesk/internal/config"
	"bizdesk/internal/dbmysql"
	"bizdesk/internal/notify"

	"github.com/google/wire"
)

// This is just a declaration — wire will generate the real body
func InitializeApplication() (*Application, error) {
	wire.Build(
		config.LoadConfig,
		dbmysql.NewMySQL,
		notify.NewNotificationRepository,
		notify.NewStatsRepository,
		ProvideHub,
		ProvidePusher,
		notify.NewNotificationService,
		notify.NewAdminNotifier,
		notify.NewStatsScheduler,
		notify.NewNotificationHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil // dummy for compilation
}
