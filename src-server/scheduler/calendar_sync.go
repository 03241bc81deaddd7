package scheduler

import (
	"agenda/src-server/ical"
	"agenda/src-server/loader"
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	WORKER_COUNT = 2
)

// An event file the calendar is fed from
type Source struct {
	Path string
	Kind SourceKind
}

type SourceKind int

const (
	SourceText SourceKind = iota
	SourceIcal
)

// The configured EVENTS_FILE and ICAL_FILE, in that order
func Sources(cfg *utils.Config) []Source {
	sources := make([]Source, 0, 2)
	if cfg.GetEventsFile() != "" {
		sources = append(sources, Source{Path: cfg.GetEventsFile(), Kind: SourceText})
	}
	if cfg.GetIcalFile() != "" {
		sources = append(sources, Source{Path: cfg.GetIcalFile(), Kind: SourceIcal})
	}
	return sources
}

func (s Source) parse(as *utils.AppState) ([]model.Event, error) {
	switch s.Kind {
	case SourceText:
		return loader.FromTextFile(s.Path, as.Config.GetLocation(), as.When)
	case SourceIcal:
		return ical.FromIcalFile(s.Path, as.Config.GetLocation())
	default:
		return nil, fmt.Errorf("unknown source kind %d", s.Kind)
	}
}

// Remembers the last imported hash of every source
type Syncer struct {
	as      *utils.AppState
	sources []Source

	mu     sync.Mutex
	hashes map[string]string
}

func NewSyncer(as *utils.AppState, sources []Source) *Syncer {
	return &Syncer{
		as:      as,
		sources: sources,
		hashes:  make(map[string]string),
	}
}

// Import every source whose content changed since the last call into the
// database, then rebuild the calendar from the database. Returns whether
// anything was imported.
func (s *Syncer) Sync(ctx context.Context) (bool, error) {
	jobs := make(chan Source, len(s.sources))
	for _, source := range s.sources {
		jobs <- source
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		errs     []error
		imported bool
	)
	for range min(WORKER_COUNT, len(s.sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				changed, err := s.importSource(ctx, source)
				errMu.Lock()
				if err != nil {
					errs = append(errs, err)
				}
				imported = imported || changed
				errMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if imported {
		if err := s.reload(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return imported, fmt.Errorf("(*Syncer).Sync: %w", errors.Join(errs...))
	}
	return imported, nil
}

func (s *Syncer) importSource(ctx context.Context, source Source) (bool, error) {
	hash, err := utils.GetFileHash(source.Path)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	unchanged := s.hashes[source.Path] == hash
	s.mu.Unlock()
	if unchanged {
		return false, nil
	}

	events, err := source.parse(s.as)
	if err != nil {
		return false, fmt.Errorf("%s: %w", source.Path, err)
	}

	startTimer := time.Now()
	if err := model.SaveEvents(ctx, s.as.BunDB, source.Path, events); err != nil {
		return false, fmt.Errorf("%s: %w", source.Path, err)
	}
	s.as.MetricChans.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

	s.mu.Lock()
	s.hashes[source.Path] = hash
	s.mu.Unlock()
	slog.Info("events imported", "path", source.Path, "count", len(events))
	return true, nil
}

// Replace the in-memory calendar content with what is stored.
func (s *Syncer) reload(ctx context.Context) error {
	startTimer := time.Now()
	events, err := model.LoadEvents(ctx, s.as.BunDB)
	if err != nil {
		return err
	}
	s.as.MetricChans.ReportDatabaseRead(float64(time.Since(startTimer).Microseconds()))
	s.as.Calendar.Replace(events)
	return nil
}

// Sync every interval until graceful shutdown.
func CalendarSync(as *utils.AppState, syncer *Syncer) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	ticker := time.NewTicker(as.Config.GetSyncInterval())
	defer ticker.Stop()
	for {
		select {
		case <-*gracefulShutdownCh:
			return
		case <-ticker.C:
			imported, err := syncer.Sync(context.Background())
			if err != nil {
				slog.Warn("CalendarSync: can't sync calendar", "error", err)
			}
			if imported {
				slog.Info("calendar reloaded", "events", as.Calendar.Len())
			}
		}
	}
}
