package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/config"
	"github.com/olboyarshinova/daily-exersises-bot/internal/delivery"
	"github.com/olboyarshinova/daily-exersises-bot/internal/scheduler"
	"github.com/olboyarshinova/daily-exersises-bot/internal/sheets"
	"github.com/olboyarshinova/daily-exersises-bot/internal/store"
	"github.com/olboyarshinova/daily-exersises-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	client  *telegram.Client
	httpSrv *http.Server
	repo    store.Repo
	timers  *delivery.TimerRegistry
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	client, err := telegram.NewClient(cfg.BotToken, log)
	if err != nil {
		return nil, fmt.Errorf("telegram client: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, client: client, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting daily-exersises-bot",
		zap.String("tz", a.cfg.TZ),
		zap.Duration("tick", a.cfg.TickInterval),
		zap.String("http", a.cfg.HTTPAddr),
	)

	loc, err := time.LoadLocation(a.cfg.TZ)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", a.cfg.TZ, err)
	}

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	sheet, err := sheets.New(ctx, a.cfg.CredentialsFile, a.cfg.SpreadsheetID, a.cfg.SheetReadRange, loc, a.log)
	if err != nil {
		a.log.Error("sheets client failed", zap.Error(err))
		return err
	}

	a.timers = delivery.NewTimerRegistry()
	feedback := delivery.NewFeedbackState()
	engine := delivery.NewEngine(sheet, a.client, repo, a.timers, feedback, a.cfg.FollowUpBuffer, a.log)
	a.sched = scheduler.New(sheet, repo, engine, loc, a.cfg.TickInterval, a.log)
	a.router = telegram.NewRouter(a.client, a.log, repo, sheet, feedback, loc)

	if err := a.client.SetCommands(); err != nil {
		a.log.Warn("set bot commands failed", zap.Error(err))
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.sched.Run(ctx)

	updCh := a.client.UpdatesChan(30)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) shutdown() {
	// Pending follow-ups are in-memory only and are dropped on restart.
	if a.timers != nil {
		a.timers.StopAll()
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
}
