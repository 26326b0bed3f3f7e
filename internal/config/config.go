// Package config は defaults → TOML ファイル → 環境変数 の順で設定を組み立てる。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Duration は TOML の "3s" のような文字列を time.Duration として読む。
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type TracingConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
}

type Config struct {
	HTTPAddr       string   `toml:"http_addr"`
	GRPCAddr       string   `toml:"grpc_addr"`
	MetricsAddr    string   `toml:"metrics_addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	// 空なら認証なし
	AuthSecret string `toml:"auth_secret"`

	Log     LogConfig     `toml:"log"`
	Tracing TracingConfig `toml:"tracing"`
}

const defaultRequestTimeout = 3 * time.Second

func Default() Config {
	return Config{
		HTTPAddr:       ":8080",
		GRPCAddr:       ":50051",
		MetricsAddr:    ":9464",
		RequestTimeout: Duration{defaultRequestTimeout},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			ServiceName: "todo-api",
		},
	}
}

// Load は TODO_CONFIG があればその TOML を読み、最後に env で上書きする。
// logger はまだ本番 logger ができる前なので nil 可。
func Load(logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()

	if path := os.Getenv("TODO_CONFIG"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg, os.LookupEnv, logger)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown keys %v", path, undecoded)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv は env を上書き適用する。不正値は起動失敗にせず warn して、
// 直前の値（ファイル or デフォルト）をそのまま残す。
func applyEnv(cfg *Config, lookup lookupFunc, logger *zap.Logger) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid bool env, keep current value",
				zap.String("key", key),
				zap.String("raw", v),
				zap.Error(err),
			)
			return
		}
		*dst = b
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("GRPC_ADDR", &cfg.GRPCAddr)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("AUTH_SECRET", &cfg.AuthSecret)
	str("LOG_LEVEL", &cfg.Log.Level)
	boolean("LOG_DEVELOPMENT", &cfg.Log.Development)
	boolean("TRACING_ENABLED", &cfg.Tracing.Enabled)
	str("SERVICE_NAME", &cfg.Tracing.ServiceName)

	if raw, ok := lookup("REQUEST_TIMEOUT"); ok && raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			logger.Warn("invalid REQUEST_TIMEOUT, keep current value",
				zap.String("raw", raw),
				zap.Duration("current", cfg.RequestTimeout.Duration),
				zap.Error(err),
			)
		} else {
			cfg.RequestTimeout.Duration = timeout
		}
	}
}

// AuthEnabled は AUTH_SECRET が設定されているか。
func (c Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}
