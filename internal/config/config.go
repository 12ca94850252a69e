package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		LogLevel    int    `env:"LOG_LEVEL,default=4"`
		DotPath     string `env:"DOT_PATH,default=~/.postguard"`
		MetricsAddr string `env:"METRICS_ADDR,default=:2112"`
		Platform    Platform
		LLM         LLM
		Scan        Scan
	}

	Platform struct {
		BearerToken string `env:"X_BEARER_TOKEN"`
		BaseURL     string `env:"X_API_URL,default=https://api.x.com/2"`
		BotUserID   string `env:"X_BOT_USER_ID"`
	}

	LLM struct {
		APIKey  string `env:"LLM_API_KEY"`
		Model   string `env:"LLM_API_MODEL,default=gpt-4o-mini"`
		BaseURL string `env:"LLM_API_URL,default=https://api.openai.com/v1"`
		Type    string `env:"LLM_API_TYPE,default=openai"`
	}

	Scan struct {
		Interval      time.Duration `env:"SCAN_INTERVAL,default=15m"`
		PostBatchSize int           `env:"SCAN_POST_BATCH,default=5"`
		ReplyPageSize int           `env:"SCAN_REPLY_PAGE,default=20"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("PG_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			globalErr = fmt.Errorf("get user home directory: %w", err)
			return
		}
		cfg.DotPath = strings.Replace(cfg.DotPath, "~", home, 1)
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
