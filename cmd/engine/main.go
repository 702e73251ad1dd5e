package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/fetch"
	"jobscout-engine/internal/httpapi"
	"jobscout-engine/internal/inference"
	"jobscout-engine/internal/notify"
	"jobscout-engine/internal/pipeline"
	"jobscout-engine/internal/policy"
	"jobscout-engine/internal/scheduler"
	"jobscout-engine/internal/secrets"
	"jobscout-engine/internal/source/emailalert"
	"jobscout-engine/internal/store"
)

func main() {
	config.LoadDotEnv()

	dataDir := os.Getenv("JOBSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. A second instance would race on the store.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine already owns %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.App.Timezone, err)
	}

	db, err := store.Open(filepath.Join(dataDir, "jobscout.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	polPath := cfg.PolicyPath
	if !filepath.IsAbs(polPath) {
		polPath = filepath.Join(dataDir, polPath)
	}
	pol := &policy.Store{Path: polPath}

	runner, err := buildRunner(cfg, db, pol, loc)
	if err != nil {
		log.Fatal(err)
	}

	var runStatus atomic.Value
	runStatus.Store(httpapi.RunStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         runner.Hub,
		Runner:      runner,
		Policy:      pol,
		Loc:         loc,
		Started:     time.Now(),
		CfgVal:      &cfgVal,
		RunStatus:   &runStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Printf("[engine] shutdown token %s", token)

	sched := scheduler.New(runner, db, loc, cfg.Schedule.RunSpec, cfg.Pipeline.PurgeDays)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer sched.Stop()

	var g errgroup.Group
	g.Go(func() error {
		log.Printf("[engine] listening on http://%s", addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	if err := db.Checkpoint(); err != nil {
		log.Printf("[engine] wal checkpoint: %v", err)
	}
	log.Println("[engine] bye")
}

// buildRunner wires the pipeline collaborators from config. Secrets are
// resolved once at startup; a restart picks up changed credentials.
func buildRunner(cfg config.Config, db *store.DB, pol *policy.Store, loc *time.Location) (*pipeline.Runner, error) {
	var src pipeline.Source
	if cfg.Email.Enabled {
		pw, err := secrets.GetIMAPPassword(cfg.Email.Username, cfg.Email.IMAPHost)
		if err != nil {
			return nil, fmt.Errorf("imap credentials: %w", err)
		}
		src = emailalert.New(emailalert.Config{
			Host:        cfg.Email.IMAPHost,
			Port:        cfg.Email.IMAPPort,
			Username:    cfg.Email.Username,
			Password:    pw,
			Mailbox:     cfg.Email.Mailbox,
			MaxMessages: cfg.Email.MaxMessages,
		})
	} else {
		return nil, errors.New("no discovery source enabled (set email.enabled)")
	}

	fetcher := fetch.New(fetch.NewHostLimiter(cfg.Fetch.ReqPerSec, cfg.Fetch.Burst))

	infToken := cfg.Secrets.InferenceKey
	if infToken == "" {
		t, err := secrets.GetInferenceToken()
		if err != nil {
			return nil, err
		}
		infToken = t
	}
	matcher := inference.New(inference.Config{
		BaseURL:          cfg.Inference.BaseURL,
		Model:            cfg.Inference.Model,
		Token:            infToken,
		DegreeVariations: cfg.Inference.DegreeVariations,
	})

	tgToken := cfg.Secrets.TelegramToken
	if tgToken == "" {
		t, err := secrets.GetTelegramToken()
		if err != nil {
			return nil, err
		}
		tgToken = t
	}
	notifier, err := notify.NewTelegram(tgToken, cfg.Notify.ChatID)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	return pipeline.NewRunner(db, pol, src, fetcher, matcher, notifier, events.NewHub(), cfg, loc), nil
}
