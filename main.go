package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"netconns/api"
	"netconns/collector"
	"netconns/config"
	"netconns/output"
)

// Build info
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Config failed: %v", err)
		return 1
	}

	log.Printf("netconns %s (%s) built on %s", version, commit, date)

	caps := collector.DetectCapabilities()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := collector.NewPipeline(collector.ParseMalformedPolicy(cfg.MalformedPolicy), cfg.ResolveWorkers)
	pipeline.Privileged = caps.IsPrivileged
	if cfg.AnnotateContainers && caps.HasDockerSocket {
		pipeline.Containers = collector.DockerContainers{}
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		if errors.Is(err, collector.ErrProviderUnavailable) {
			log.Printf("Cannot read the TCP connection table: %v", err)
		} else {
			log.Printf("Enumeration failed: %v", err)
		}
		return 1
	}

	switch cfg.OutputFormat {
	case "json":
		err = output.RenderJSON(os.Stdout, report)
	default:
		err = output.Render(os.Stdout, report)
	}
	if err != nil {
		log.Printf("Render failed: %v", err)
		return 1
	}

	if cfg.APIURL != "" && cfg.APIKey != "" {
		sender := api.NewSender(cfg.APIURL, cfg.APIKey, version)
		if err := sender.SendReport(ctx, report); err != nil {
			log.Printf("Send failed: %v", err)
		}
	}
	return 0
}
