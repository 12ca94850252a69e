package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/postguard/postguard/internal/adapters/llm/gemini"
	"github.com/postguard/postguard/internal/adapters/llm/openai"
	"github.com/postguard/postguard/internal/config"
	"github.com/postguard/postguard/internal/db/sqlite"
	"github.com/postguard/postguard/internal/infra"
	"github.com/postguard/postguard/internal/lifecycle"
	"github.com/postguard/postguard/internal/moderation"
	"github.com/postguard/postguard/internal/observability"
	"github.com/postguard/postguard/internal/platform/x"
	"github.com/postguard/postguard/internal/spam"
)

func main() {
	cfg := config.Get()
	log.SetFormatter(&config.PgFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Errorln("exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
		return err
	}

	store, err := sqlite.NewSQLiteClient(ctx, infra.GetWorkDir(), "postguard.db")
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Errorln("cant close ledger")
		}
	}()

	platformClient := x.NewClient(cfg.Platform.BaseURL, cfg.Platform.BearerToken, cfg.Platform.BotUserID)
	scanner := moderation.NewScanner(platformClient, store, spam.NewScorer()).
		WithBatchSizes(cfg.Scan.PostBatchSize, cfg.Scan.ReplyPageSize)
	if arbiter := newArbiter(cfg); arbiter != nil {
		scanner.WithArbiter(arbiter)
	}

	runtime := lifecycle.NewRuntime().
		Register("scan_scheduler", moderation.NewScheduler(scanner, store, cfg.Scan.Interval))
	if err := runtime.Start(ctx); err != nil {
		return err
	}

	g, runCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-runCtx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return runtime.Stop(stopCtx)
	})
	g.Go(func() error {
		select {
		case <-infra.MonitorExecutable(runCtx):
			return errors.New("executable file was modified")
		case <-runCtx.Done():
			return nil
		}
	})
	return g.Wait()
}

type arbiter interface {
	Detect(ctx context.Context, message string) (*bool, error)
}

func newArbiter(cfg config.Config) arbiter {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	entry := log.WithField("context", "llm")
	switch cfg.LLM.Type {
	case "gemini":
		return gemini.NewGemini(cfg.LLM.APIKey, cfg.LLM.Model, entry)
	default:
		return openai.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, entry)
	}
}
