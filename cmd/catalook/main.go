// Copyright 2025 Catalook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/catalook/catalook"
	"github.com/catalook/catalook/config"
	"github.com/catalook/catalook/core"
	"github.com/catalook/catalook/dataset"
	"github.com/catalook/catalook/storage/csv"
)

func main() {
	app := &cli.App{
		Name:  "catalook",
		Usage: "Search and filter tool for electrical connector part catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   "catalook.toml",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Path to CSV catalog (overrides the config file)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the catalog by free text and filters",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Filter as dimension=value, repeatable",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows to print (0 = all)",
						Value: 25,
					},
				},
			},
			{
				Name:      "options",
				Usage:     "Show selectable filter values under the given selection",
				Action:    optionsCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Filter as dimension=value, repeatable",
					},
				},
			},
			{
				Name:      "alternatives",
				Usage:     "List alternative parts for a part number",
				ArgsUsage: "<part-number>",
				Action:    alternativesCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of alternatives (0 = all)",
						Value: 10,
					},
				},
			},
			{
				Name:      "opposite",
				Usage:     "Find the mating counterpart of a part number",
				ArgsUsage: "<part-number>",
				Action:    oppositeCommand,
			},
			{
				Name:   "shell",
				Usage:  "Interactive search session with history",
				Action: shellCommand,
			},
			{
				Name:   "watch",
				Usage:  "Serve searches while reloading the catalog on file changes",
				Action: watchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openCatalog builds a Catalog from the configuration and loads the CSV
// dataset, falling back to the persistent cache when the file is missing.
func openCatalog(c *cli.Context) (*catalook.Catalog, *config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if path := c.String("catalog"); path != "" {
		cfg.CatalogPath = path
	}

	opts := []catalook.CatalogOption{
		catalook.WithHistoryCapacity(cfg.HistoryCapacity),
	}
	if cfg.CacheDir != "" {
		opts = append(opts, catalook.WithCacheDir(cfg.CacheDir))
	}
	if policy, ok := cfg.AlternativePolicy(); ok {
		opts = append(opts, catalook.WithAlternativePolicy(policy))
	}
	if policy, ok := cfg.OppositePolicy(); ok {
		opts = append(opts, catalook.WithOppositePolicy(policy))
	}

	catalog, err := catalook.New(opts...)
	if err != nil {
		return nil, nil, err
	}

	if err := loadDataset(c.Context, catalog, cfg); err != nil {
		catalog.Close()
		return nil, nil, err
	}
	return catalog, cfg, nil
}

func loadDataset(ctx context.Context, catalog *catalook.Catalog, cfg *config.Config) error {
	if cfg.CatalogPath == "" {
		return fmt.Errorf("no catalog path configured; set catalog_path or pass --catalog")
	}

	src := newSource(cfg)
	if _, err := os.Stat(cfg.CatalogPath); err != nil {
		// No catalog file: try the last cached dataset instead
		handle, cacheErr := catalog.LoadCached(ctx, nil)
		if cacheErr != nil {
			return fmt.Errorf("catalog file unavailable and no cache: %w", err)
		}
		if _, waitErr := handle.Wait(ctx); waitErr != nil {
			return fmt.Errorf("loading cached dataset: %w", waitErr)
		}
		slog.Warn("catalog file unavailable, serving cached dataset", "path", cfg.CatalogPath)
		return nil
	}

	_, err := catalog.Load(ctx, src, nil).Wait(ctx)
	return err
}

func newSource(cfg *config.Config) *csv.Source {
	var opts []csv.Option
	if cfg.KeyDimension != "" {
		opts = append(opts, csv.WithKeyDimension(core.Dimension(cfg.KeyDimension)))
	}
	return csv.NewSource(cfg.CatalogPath, opts...)
}

func searchCommand(c *cli.Context) error {
	catalog, _, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return err
	}
	query := core.SearchQuery{
		Text:    strings.Join(c.Args().Slice(), " "),
		Filters: filters,
	}

	result, err := catalog.Search(c.Context, query).Wait(c.Context)
	if err != nil {
		return err
	}

	printResult(catalog, result, c.Int("limit"))
	return nil
}

func optionsCommand(c *cli.Context) error {
	catalog, _, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return err
	}

	opts, err := catalog.FilterOptions(filters)
	if err != nil {
		return err
	}

	dims := make([]string, 0, len(opts.Values))
	for dim := range opts.Values {
		dims = append(dims, string(dim))
	}
	sort.Strings(dims)
	for _, dim := range dims {
		fmt.Printf("%s: %s\n", dim, strings.Join(opts.Values[core.Dimension(dim)], ", "))
	}
	for dim, values := range opts.Invalid {
		fmt.Printf("unavailable under current selection: %s=%s\n", dim, strings.Join(values, ", "))
	}
	return nil
}

func alternativesCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one part number")
	}

	catalog, _, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	ref, err := findPart(catalog, c.Args().First())
	if err != nil {
		return err
	}

	alternatives, err := catalog.Alternatives(ref.Key, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(alternatives) == 0 {
		fmt.Println("no alternatives found")
		return nil
	}

	snapshot, _ := catalog.Current()
	for _, record := range alternatives {
		fmt.Println(formatRecord(snapshot.Schema, record))
	}
	return nil
}

func oppositeCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one part number")
	}

	catalog, _, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	ref, err := findPart(catalog, c.Args().First())
	if err != nil {
		return err
	}

	opposite, found, err := catalog.Opposite(ref.Key)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no counterpart found")
		return nil
	}

	snapshot, _ := catalog.Current()
	fmt.Println(formatRecord(snapshot.Schema, opposite))
	return nil
}

func watchCommand(c *cli.Context) error {
	catalog, cfg, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	ch := make(chan dataset.Progress, 64)
	watcher, err := catalog.Watch(newSource(cfg), cfg.CatalogPath,
		dataset.NewChannelMonitor(ch),
		dataset.WithDebounce(cfg.WatchDebounce.Duration))
	if err != nil {
		return err
	}
	defer watcher.Close()

	slog.Info("watching catalog", "path", cfg.CatalogPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case p := <-ch:
			if p.Err != nil {
				slog.Error("reload failed", "err", p.Err)
				continue
			}
			slog.Info("load progress", "stage", p.Stage, "percent", p.Percent)
		case <-sigCh:
			return nil
		}
	}
}

// parseFilters turns repeated dimension=value flags into a selection.
func parseFilters(raw []string) (core.FilterSelection, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(core.FilterSelection, len(raw))
	for _, pair := range raw {
		dim, value, ok := strings.Cut(pair, "=")
		if !ok || dim == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q: expected dimension=value", pair)
		}
		filters.Add(core.Dimension(dim), value)
	}
	return filters, nil
}

// findPart locates a record whose part number matches value exactly,
// case-insensitively.
func findPart(catalog *catalook.Catalog, value string) (core.Record, error) {
	snapshot, ok := catalog.Current()
	if !ok {
		return core.Record{}, dataset.ErrNotReady
	}
	for _, record := range snapshot.Records {
		number, ok := snapshot.Schema.Value(record, core.DimPartNumber)
		if ok && strings.EqualFold(number, value) {
			return record, nil
		}
	}
	return core.Record{}, fmt.Errorf("part %q not found", value)
}

func formatRecord(schema core.Schema, record core.Record) string {
	parts := make([]string, 0, len(schema.Dimensions))
	for _, dim := range schema.Dimensions {
		value, _ := schema.Value(record, dim)
		parts = append(parts, fmt.Sprintf("%s=%s", dim, value))
	}
	return strings.Join(parts, "  ")
}

func printResult(catalog *catalook.Catalog, result *core.SearchResult, limit int) {
	snapshot, _ := catalog.Current()
	rows := result.Records
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, record := range rows {
		fmt.Println(formatRecord(snapshot.Schema, record))
	}
	fmt.Printf("showing %d of %d matching parts (catalog of %d, version %d)\n",
		len(rows), result.MatchedCount, result.TotalCount, result.Version)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
