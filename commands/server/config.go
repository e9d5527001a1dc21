package server

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/reppay/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config holds the process settings of the node. Every field can be set
// through the environment, and the start flags override it.
type Config struct {
	Home        string `env:"CUSTODY_HOME"`
	Bind        string `env:"CUSTODY_BIND" envDefault:"tcp://localhost:26658"`
	Debug       bool   `env:"CUSTODY_DEBUG"`
	LogLevel    string `env:"CUSTODY_LOG_LEVEL" envDefault:"info"`
	MetricsAddr string `env:"CUSTODY_METRICS_ADDR" envDefault:"localhost:26660"`

	KafkaBrokers   []string      `env:"CUSTODY_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic     string        `env:"CUSTODY_KAFKA_TOPIC" envDefault:"custody.claims"`
	PublishTimeout time.Duration `env:"CUSTODY_PUBLISH_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads the configuration from the environment. The home
// directory defaults to $HOME/.custody.
func LoadConfig() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, errors.Wrapf(errors.ErrInvalidInput, "parse env: %s", err)
	}
	if conf.Home == "" {
		conf.Home = filepath.Join(os.ExpandEnv("$HOME"), ".custody")
	}
	return conf, nil
}

// parseStartFlags lets command line flags override conf.
func parseStartFlags(conf Config, args []string) (Config, error) {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&conf.Bind, "bind", conf.Bind, "address server listens on")
	fs.BoolVar(&conf.Debug, "debug", conf.Debug, "call stack returned on error")
	fs.StringVar(&conf.LogLevel, "log_level", conf.LogLevel, "log level (debug, info, error, none)")
	fs.StringVar(&conf.MetricsAddr, "metrics", conf.MetricsAddr, "address of the prometheus endpoint, empty to disable")
	brokers := fs.String("kafka", strings.Join(conf.KafkaBrokers, ","), "comma separated kafka brokers, empty to log events instead")
	fs.StringVar(&conf.KafkaTopic, "kafka_topic", conf.KafkaTopic, "topic claim events are published to")
	fs.DurationVar(&conf.PublishTimeout, "publish_timeout", conf.PublishTimeout, "how long a commit waits for the event publisher")
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	conf.KafkaBrokers = splitList(*brokers)
	return conf, nil
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

// FilterLogger applies the configured level to logger.
func FilterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}
