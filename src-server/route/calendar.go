package route

import (
	"agenda/src-server/model"
	"io"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SummaryRespBody struct {
	Total         int            `json:"total"`
	PerMonth      map[string]int `json:"perMonth"`
	BusiestMonths []string       `json:"busiestMonths"`
	LongestEvent  string         `json:"longestEvent"`
}

// Read-only views of the calendar
func Calendar(muxer *http.ServeMux, cal *model.Calendar) {
	// text dump, one line per month
	muxer.HandleFunc("GET /calendar", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, cal.String()); err != nil {
			slog.Warn("can't write to response", "where", "route/calendar.go", "err", err)
		}
	})

	muxer.HandleFunc("GET /calendar/summary", func(w http.ResponseWriter, r *http.Request) {
		respBody := SummaryRespBody{
			PerMonth:      make(map[string]int),
			BusiestMonths: make([]string, 0),
		}
		snapshot := cal.Clone()
		snapshot.Each(func(m model.Month, events []model.Event) {
			respBody.PerMonth[m.String()] = len(events)
			respBody.Total += len(events)
		})
		for _, m := range snapshot.MonthsWithMostEvents() {
			respBody.BusiestMonths = append(respBody.BusiestMonths, m.String())
		}
		respBody.LongestEvent = snapshot.LongestEvent()

		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// events of one month, in chronological order
	muxer.HandleFunc("GET /calendar/{month}", func(w http.ResponseWriter, r *http.Request) {
		month, err := model.ParseMonth(r.PathValue("month"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Unknown month"))
			return
		}

		type OneEventRespBody struct {
			Name             string `json:"name"`
			StartDateUnixUTC int64  `json:"startDateUnixUTC"`
			DurationMinutes  int    `json:"durationMinutes"`
			Weekday          int    `json:"weekday"`
		}
		respBody := make([]OneEventRespBody, 0)
		cal.Each(func(m model.Month, events []model.Event) {
			if m != month {
				return
			}
			for _, e := range events {
				respBody = append(respBody, OneEventRespBody{
					Name:             e.Name(),
					StartDateUnixUTC: e.Start().UTC().Unix(),
					DurationMinutes:  e.DurationMinutes(),
					Weekday:          e.Weekday(),
				})
			}
		})

		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
