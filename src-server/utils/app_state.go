package utils

import (
	"agenda/src-server/model"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config   *Config
	RawDB    *sql.DB
	BunDB    *bun.DB
	When     *when.Parser
	Calendar *model.Calendar

	MetricChans *Metric

	// SIGINT/SIGTERM (or a fatal server error) land here
	AppCloseSignalChan chan os.Signal

	shutdownMu    sync.Mutex
	shutdownChans []*chan struct{}
}

func NewAppState() *AppState {
	as, err := NewAppStateWith(NewConfig())
	if err != nil {
		slog.Error("can't initialize app state", "error", err)
		os.Exit(1)
	}
	return as
}

// Open the database described by cfg and create its schema.
func NewAppStateWith(cfg *Config) (*AppState, error) {
	as := &AppState{
		Config:             cfg,
		Calendar:           model.NewCalendar(),
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	// date parser
	as.When = NewWhenParser()

	// database
	dsn := cfg.GetSQLitePath()
	if dsn != ":memory:" {
		dsn += "?mode=rwc"
	}
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("NewAppStateWith: can't open sqlite database: %w", err)
	}
	as.RawDB.SetMaxIdleConns(8)
	if dsn == ":memory:" {
		// a second pooled connection would see an empty database
		as.RawDB.SetMaxOpenConns(1)
	}

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	// BUNDEBUG=1 logs failed queries, BUNDEBUG=2 every query
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		return nil, fmt.Errorf("NewAppStateWith: %w", err)
	}

	return as, nil
}

// English and common rules, the same set the text loader falls back to
func NewWhenParser() *when.Parser {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return parser
}

// Each background goroutine asks for its own channel; it is closed once on
// GracefulShutdown.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, &ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	for _, ch := range as.shutdownChans {
		close(*ch)
	}
	as.shutdownChans = nil
	as.shutdownMu.Unlock()

	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
