package wire

import (
	"log"

	"bizdesk/internal/config"
	"bizdesk/internal/notify"

	"gorm.io/gorm"
)

type Application struct {
	Config    *config.Config
	DB        *gorm.DB
	Hub       *notify.Hub
	Service   notify.NotificationService
	Admin     *notify.AdminNotifier
	Scheduler *notify.StatsScheduler
	Handler   *notify.NotificationHandler
}

func ProvideHub(cfg *config.Config) *notify.Hub {
	if !cfg.Push.Enabled {
		log.Println("Push delivery disabled, clients will poll")
		return nil
	}
	return notify.NewHub(cfg)
}

// ProvidePusher keeps a disabled hub out of the router: a nil *Hub must not
// become a non-nil Pusher interface.
func ProvidePusher(hub *notify.Hub) notify.Pusher {
	if hub == nil {
		return nil
	}
	return hub
}
