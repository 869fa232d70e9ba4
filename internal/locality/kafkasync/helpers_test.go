package kafkasync

import "github.com/mohammed-shakir/pluscode/internal/core/config"

func configSettings(driver, brokers, topic, group string) config.LocalitySyncCfg {
	return config.LocalitySyncCfg{Enabled: true, Driver: driver, Brokers: brokers, Topic: topic, GroupID: group}
}
