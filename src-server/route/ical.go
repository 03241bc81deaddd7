package route

import (
	"agenda/src-server/ical"
	"agenda/src-server/model"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

func Ical(muxer *http.ServeMux, cal *model.Calendar) {
	muxer.HandleFunc("GET /calendar.ics", func(w http.ResponseWriter, r *http.Request) {
		// render first so a failure can still become a 500
		var sb strings.Builder
		if err := ical.ToIcal(sb.WriteString, cal); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=calendar-%s.ics", ical.NewExportID()))
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
		}
	})
}
