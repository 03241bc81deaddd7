package metric

import (
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	calendarEventsName  = "agenda_calendar_events"
	cancelledEventsName = "agenda_cancelled_events_total"
)

func newCalendarEventsGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: calendarEventsName,
		Help: "Number of events in each month of the calendar",
	}, []string{"month"})
}

// Copy the per month counts of cal into the gauge; months without events read 0.
func observeCalendar(gauge *prometheus.GaugeVec, cal *model.Calendar) {
	for _, m := range model.AllMonths() {
		gauge.WithLabelValues(m.String()).Set(float64(cal.TotalEventsInMonth(m)))
	}
}

func calendarEvents(as *utils.AppState, tickerInterval *time.Duration) {
	gauge := newCalendarEventsGauge()
	if register(gauge, calendarEventsName) {
		observeCalendar(gauge, as.Calendar)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(gauge, calendarEventsName)
				return
			case <-ticker.C:
				observeCalendar(gauge, as.Calendar)
			}
		}
	}()
}

func cancelledEvents(as *utils.AppState) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: cancelledEventsName,
		Help: "Number of events removed by cancellations",
	})
	register(counter, cancelledEventsName)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(counter, cancelledEventsName)
				return
			case count := <-as.MetricChans.CancelledEvents:
				counter.Add(float64(count))
			}
		}
	}()
}
