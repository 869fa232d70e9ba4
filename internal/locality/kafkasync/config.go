package kafkasync

import (
	"strings"
	"time"

	"github.com/mohammed-shakir/pluscode/internal/core/config"
)

type Driver string

const (
	DriverNone  Driver = "none"
	DriverKafka Driver = "kafka"
)

type Config struct {
	Enabled bool
	Driver  Driver

	Brokers []string
	Topic   string
	GroupID string

	SessionTimeout   time.Duration
	Heartbeat        time.Duration
	RebalanceTimeout time.Duration
	InitialOldest    bool
}

func (c Config) Active() bool { return c.Enabled && c.Driver == DriverKafka }

func FromSettings(s config.LocalitySyncCfg) Config {
	driver := Driver(strings.ToLower(strings.TrimSpace(s.Driver)))
	if driver == "" {
		driver = DriverNone
	}
	topic := strings.TrimSpace(s.Topic)
	if topic == "" {
		topic = "locality-updates"
	}
	group := strings.TrimSpace(s.GroupID)
	if group == "" {
		group = "pluscode-localities"
	}
	return Config{
		Enabled:          s.Enabled,
		Driver:           driver,
		Brokers:          split(s.Brokers),
		Topic:            topic,
		GroupID:          group,
		SessionTimeout:   30 * time.Second,
		Heartbeat:        3 * time.Second,
		RebalanceTimeout: 30 * time.Second,
		InitialOldest:    true,
	}
}

func split(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if x := strings.TrimSpace(p); x != "" {
			out = append(out, x)
		}
	}
	return out
}
