package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/api"
	"github.com/dmdmdm-nz/reachd/internal/netmon"
	"github.com/dmdmdm-nz/reachd/internal/reach"
	"github.com/dmdmdm-nz/reachd/internal/runtime"
	"github.com/dmdmdm-nz/reachd/pkg/cli"
)

func main() {
	// Parse command line flags
	cfg := cli.ParseFlags()

	// Configure logging
	setLogLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FullTimestamp:   true,
	})

	log.Infof("Config: Host=%s", cfg.Host)
	log.Infof("Config: Port=%d", cfg.Port)
	log.Infof("Config: LogLevel=%s", cfg.LogLevel)
	log.Infof("Config: Advertise=%v", cfg.Advertise)
	log.Infof("Config: Legacy=%v", cfg.Legacy)
	log.Infof("Config: PollInterval=%s", cfg.PollInterval)
	if cfg.ConfigPath != "" {
		log.Infof("Config: File=%s", cfg.ConfigPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var watcher netmon.Watcher
	if cfg.PollInterval > 0 {
		watcher = netmon.NewPollWatcher(cfg.PollInterval)
	} else {
		watcher = netmon.NewWatcher()
	}

	capabilityAPI := netmon.CapabilityAPIAvailable() && !cfg.Legacy
	log.WithField("capabilityAPI", capabilityAPI).Info("Selected classification strategy")

	// The broadcaster must exist before the API so sessions can register
	// against it as soon as they connect.
	netmonSvc := netmon.NewService(watcher)
	apiSvc := api.NewService(api.Options{
		Host: cfg.Host,
		Port: cfg.Port,
		Platform: reach.Binding{
			Connectivity: netmon.NewConnectivity(),
			Broadcaster:  netmonSvc,
		},
		CapabilityAPI: capabilityAPI,
		Advertise:     cfg.Advertise,
	})

	// Start in dependency order: netmon → api
	super := runtime.NewSupervisor()
	super.Add("netmon", func(ctx context.Context) error { return netmonSvc.Start(ctx) }, netmonSvc.Close)
	super.Add("api", func(ctx context.Context) error { return apiSvc.Start(ctx) }, apiSvc.Close)

	if err := super.Start(ctx); err != nil {
		log.WithError(err).Error("Supervisor start failed")
		os.Exit(1)
	}
	if err := super.Wait(ctx); err != nil {
		log.WithError(err).Error("Supervisor wait failed")
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	switch level {
	case "trace":
		log.SetLevel(log.TraceLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
