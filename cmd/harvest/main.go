package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TickerHarvest/internal/collector"
	"TickerHarvest/internal/config"
	"TickerHarvest/internal/harvester"
	"TickerHarvest/internal/recorder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerHarvest starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	startDate, err := cfg.StartDateTime()
	if err != nil {
		log.Fatalf("[FATAL] start date: %v", err)
	}

	// Init fetcher
	fetcher := collector.NewAlphaVantageFetcher(
		cfg.Provider.BaseURL, cfg.Provider.APIKey,
		cfg.Timeout(), cfg.CallInterval(), cfg.Proxy,
	)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for Ctrl+C cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[WARN] shutdown signal received, cancelling run")
		cancel()
	}()

	h := harvester.New(fetcher, rec, cfg.Tickers, startDate)
	tbl := h.Run(ctx)

	if err := tbl.WriteFile(cfg.Output.Path); err != nil {
		log.Fatalf("[FATAL] write output: %v", err)
	}
	log.Printf("[INFO] wrote %s (%d tickers)", cfg.Output.Path, tbl.Len())
}
