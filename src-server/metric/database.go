package metric

import (
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.EventRecord)(nil)).
		Where("id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	const name = "agenda_database_empty_read_microsec"
	databaseEmptyRead := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty database read in microseconds",
	})
	if register(databaseEmptyRead, name) {
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(databaseEmptyRead, name)
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	latencyGauge(as, "agenda_database_read_microsec",
		"The latency of the last database read in microseconds",
		as.MetricChans.DatabaseRead, clearTickerInterval)
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	latencyGauge(as, "agenda_database_write_microsec",
		"The latency of the last database write in microseconds",
		as.MetricChans.DatabaseWrite, clearTickerInterval)
}

// A gauge fed by ch that falls back to 0 once no value arrived for a while.
func latencyGauge(as *utils.AppState, name, help string, ch <-chan float64, clearTickerInterval *time.Duration) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	if register(gauge, name) {
		gauge.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(gauge, name)
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}
