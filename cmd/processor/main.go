// Command processor runs the reconciliation pipeline over report files
// given on the command line and prints the KPI summary as JSON. Useful
// for scripted runs and smoke tests without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"paylens/internal/analytics"
	"paylens/internal/config"
	"paylens/internal/currency"
	"paylens/internal/infrastructure"
	"paylens/internal/pipeline"
)

func main() {
	limit := flag.Int("limit", 10, "entity ranking size")
	noRates := flag.Bool("no-rates", false, "skip the exchange rate fetch; amounts stay in their source currency")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: processor [-limit n] [-no-rates] <report files...>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	endpoint := cfg.Currency.Endpoint
	if *noRates {
		// An unreachable endpoint degrades conversion to identity,
		// same as a fetch failure.
		endpoint = "http://127.0.0.1:0"
	}
	rates := currency.NewClient(endpoint, cfg.Currency.Timeout, logger)
	store := pipeline.NewStore(rates, logger)

	inputs := make([]pipeline.Input, 0, flag.NArg())
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			logger.Error("failed to open report file", slog.String("file", name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		inputs = append(inputs, pipeline.Input{Name: name, Reader: f})
	}

	if err := store.ProcessFiles(context.Background(), inputs); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary := map[string]interface{}{
		"records":       len(store.Records()),
		"metrics":       store.Metrics(),
		"date_range":    store.DateRange(),
		"monthly":       store.Monthly(),
		"top_entities":  store.TopEntities(analytics.ScopeAll, *limit),
		"top_merchants": store.TopEntities(analytics.ScopeMerchant, *limit),
		"top_channels":  store.TopEntities(analytics.ScopeChannel, *limit),
		"by_currency":   store.Distribution(analytics.ByCurrency),
		"by_country":    store.Distribution(analytics.ByCountry),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("failed to encode summary", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
