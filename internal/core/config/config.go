// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

type LocalitySyncCfg struct {
	Enabled bool
	Driver  string
	Topic   string
	Brokers string
	GroupID string
}

type Config struct {
	Addr              string
	LogLevel          string
	LogConsole        bool
	LogSampleN        int
	DefaultCodeLength int
	H3Res             int
	RedisAddr         string
	RedisPoolSize     int
	LocalityCacheSize int
	LocalityTTL       time.Duration
	CacheOpTimeout    time.Duration
	MetricsEnabled    bool
	MetricsAddr       string
	MetricsPath       string
	ShutdownTimeout   time.Duration
	LocalitySync      LocalitySyncCfg
}

func FromEnv() Config {
	codeLen := getint("DEFAULT_CODE_LENGTH", olc.DefaultCodeLength)
	if _, err := olc.Encode(0, 0, codeLen); err != nil {
		codeLen = olc.DefaultCodeLength
	}

	res := getint("H3_RES", 9)
	if res < 0 || res > 15 {
		res = 9
	}

	poolSize := getint("REDIS_POOL_SIZE", 16)
	if poolSize <= 0 {
		poolSize = 16
	}

	return Config{
		Addr:              getenv("ADDR", ":8090"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogConsole:        getbool("LOG_CONSOLE", false),
		LogSampleN:        getint("LOG_SAMPLE_N", 0),
		DefaultCodeLength: codeLen,
		H3Res:             res,
		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPoolSize:     poolSize,
		LocalityCacheSize: getint("LOCALITY_CACHE_SIZE", 1024),
		LocalityTTL:       getduration("LOCALITY_TTL", 0),
		CacheOpTimeout:    getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		MetricsEnabled:    getbool("METRICS_ENABLED", false),
		MetricsAddr:       getenv("METRICS_ADDR", ":9090"),
		MetricsPath:       getenv("METRICS_PATH", "/metrics"),
		ShutdownTimeout:   getduration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LocalitySync: LocalitySyncCfg{
			Enabled: getbool("LOCALITY_SYNC_ENABLED", false),
			Driver:  getenv("LOCALITY_SYNC_DRIVER", "none"),
			Topic:   getenv("KAFKA_TOPIC", "locality-updates"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "pluscode-localities"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
