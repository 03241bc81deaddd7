package metric

import (
	"agenda/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tickerInterval      = 15 * time.Second
	clearTickerInterval = 1 * time.Minute
)

// Start every collector; each one stops on graceful shutdown.
func Init(as *utils.AppState) {
	calendarEvents(as, &tickerInterval)
	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	cancelledEvents(as)
	slog.Debug("metrics initialized")
}

// Register c, tolerating a collector registered by an earlier Init.
func register(c prometheus.Collector, name string) bool {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register "+name+" metric", "error", err)
			return false
		}
	}
	slog.Debug(name + " metric registered")
	return true
}

func unregister(c prometheus.Collector, name string) {
	switch prometheus.Unregister(c) {
	case true:
		slog.Debug(name + " metric unregistered")
	case false:
		slog.Warn(name + " metric not registered")
	}
}
