package main

import (
	"agenda/src-server/metric"
	"agenda/src-server/model"
	"agenda/src-server/route"
	"agenda/src-server/scheduler"
	"agenda/src-server/utils"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	// The AppState holds the config, the database and the one calendar every
	// other component reads from.
	as := utils.NewAppState()
	ctx := context.Background()

	// import the event files into the database, then build the calendar from it
	syncer := scheduler.NewSyncer(as, scheduler.Sources(as.Config))
	imported, err := syncer.Sync(ctx)
	if err != nil {
		slog.Error("can't import event files", "error", err)
	}
	// Sync only rebuilds the calendar when a file was imported
	if !imported {
		startTimer := time.Now()
		events, err := model.LoadEvents(ctx, as.BunDB)
		if err != nil {
			slog.Error("can't load calendar", "error", err)
			os.Exit(1)
		}
		as.MetricChans.ReportDatabaseRead(float64(time.Since(startTimer).Microseconds()))
		as.Calendar.Replace(events)
	}

	report(as.Calendar)

	if months, weekday := as.Config.GetCancelMonths(), as.Config.GetCancelWeekday(); len(months) > 0 {
		cancelled := as.Calendar.CancelEvents(months, weekday)
		deleted, err := model.DeleteEvents(ctx, as.BunDB, months, weekday)
		if err != nil {
			slog.Error("can't delete cancelled events", "error", err)
		}
		if deleted != cancelled {
			slog.Warn("stored and in-memory cancellations differ", "cancelled", cancelled, "deleted", deleted)
		}
		as.MetricChans.ReportCancelledEvents(cancelled)
		slog.Info("events cancelled", "months", months, "weekday", weekday, "count", cancelled)
		slog.Info("calendar after cancelling\n" + as.Calendar.String())
	}

	metric.Init(as)
	go scheduler.CalendarSync(as, syncer)

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Calendar(muxer, as.Calendar)
		route.Ical(muxer, as.Calendar)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), route.LogMiddleware(muxer)); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}

// Log what the calendar looks like right after loading
func report(cal *model.Calendar) {
	slog.Info("calendar loaded\n" + cal.String())
	for _, m := range []model.Month{model.February, model.March} {
		slog.Info("events in month", "month", m, "count", cal.TotalEventsInMonth(m))
	}
	slog.Info("months with most events", "months", cal.MonthsWithMostEvents())
	slog.Info("longest event", "name", cal.LongestEvent())
}
