package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
	"github.com/reppay/custody/notify"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Services are the process wide collaborators handed to the application.
type Services struct {
	Debug          bool
	Metrics        *metrics.Metrics
	Publisher      notify.Publisher
	PublishTimeout time.Duration
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, svc Services) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, conf Config, args []string) error {
	conf, err := parseStartFlags(conf, args)
	if err != nil {
		return err
	}
	logger, err = FilterLogger(logger, conf.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, gen, logger, conf, prometheus.NewRegistry())
}

func run(ctx context.Context, gen AppGenerator, logger log.Logger, conf Config, reg *prometheus.Registry) error {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	publisher, closePublisher, err := newPublisher(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closePublisher()

	app, err := gen(conf.Home, logger, Services{
		Debug:          conf.Debug,
		Metrics:        m,
		Publisher:      notify.NewInstrumented(publisher, publisherName(conf), m),
		PublishTimeout: conf.PublishTimeout,
	})
	if err != nil {
		return err
	}

	if conf.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              conf.MetricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Serving metrics", "addr", conf.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "starting server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	if err := svr.Stop(); err != nil {
		logger.Error("Cannot stop server", "err", err)
	}
	return nil
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func publisherName(conf Config) string {
	if len(conf.KafkaBrokers) == 0 {
		return "log"
	}
	return "kafka"
}

// newPublisher returns the kafka publisher when brokers are configured and
// falls back to logging events otherwise.
func newPublisher(ctx context.Context, logger log.Logger, conf Config) (notify.Publisher, func(), error) {
	if len(conf.KafkaBrokers) == 0 {
		return notify.NewLogger(logger), func() {}, nil
	}
	kconf := notify.KafkaConfig{
		Brokers:     conf.KafkaBrokers,
		Topic:       conf.KafkaTopic,
		Partitions:  1,
		Replication: 1,
	}
	k, err := notify.NewKafka(kconf)
	if err != nil {
		return nil, nil, err
	}
	if err := k.EnsureTopic(ctx, kconf); err != nil {
		// Topics may be managed outside of the node.
		logger.Error("Cannot create kafka topic", "topic", kconf.Topic, "err", err)
	}
	logger.Info("Publishing events to kafka", "brokers", conf.KafkaBrokers, "topic", conf.KafkaTopic)
	return k, k.Close, nil
}
