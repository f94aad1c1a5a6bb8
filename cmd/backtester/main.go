package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/report"
	"llm-hedge-fund/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Interrupt received, aborting backtest")
		cancel()
	}()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	recorder, err := initializeRecorder(ctx, cfg)
	must(err)
	defer recorder.Close()

	bt := initializeBacktester(ctx, cfg, recorder)

	result, err := bt.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Backtest failed", err)
		os.Exit(1)
	}

	paths, err := report.NewWriter(cfg.Report.Dir).WriteAll(result)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to write report files", err)
	} else {
		logger.Info(ctx, "Report written", "files", paths)
	}

	b, _ := json.MarshalIndent(result.Report, "", "  ")
	fmt.Println(string(b))

	_ = trace.Shutdown(context.Background())
}
