// Copyright 2025 Poiesic Systems
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	tenderidx "github.com/poiesic/tenderidx"
	"github.com/poiesic/tenderidx/config"
	"github.com/poiesic/tenderidx/reembed"
	"github.com/poiesic/tenderidx/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "tenderidx",
		Usage: "Knowledge index and hybrid search over past tender proposals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
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
				Name:      "index",
				Usage:     "Parse, extract, and index one past proposal folder",
				ArgsUsage: "<folder-name>",
				Action:    indexCommand,
			},
			{
				Name:      "search",
				Usage:     "Search indexed proposals",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sector",
						Aliases: []string{"s"},
						Usage:   "Restrict results to one sector",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum results to return (0 = configured default)",
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (auto, keyword, semantic, hybrid)",
						Value:   string(retrieval.ModeAuto),
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Recompute embedding vectors for all indexed proposals",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Proposals embedded per request",
						Value: 32,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List all indexed proposals with aggregate statistics",
				Action: listCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openService(c *cli.Context) (*tenderidx.Service, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return tenderidx.NewService(cfg)
}

func indexCommand(c *cli.Context) error {
	folderName := c.Args().First()
	if folderName == "" {
		return fmt.Errorf("usage: tenderidx index <folder-name>")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.IndexPastProposal(c.Context, folderName)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"index_id":       result.Entry.Id,
		"folder_name":    result.Entry.FolderName,
		"title":          result.Entry.Title,
		"client":         result.Entry.Client,
		"sector":         result.Entry.Sector,
		"file_count":     result.Entry.FileCount,
		"technologies":   result.Entry.Technologies,
		"summary_path":   result.SummaryPath,
		"vector_indexed": result.VectorIndexed,
	})
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("usage: tenderidx search <query>")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	resp, err := svc.SearchPastProposals(c.Context, retrieval.Request{
		Query:  query,
		Sector: c.String("sector"),
		Limit:  c.Int("limit"),
		Mode:   retrieval.Mode(c.String("mode")),
	})
	if err != nil {
		return err
	}

	matches := make([]map[string]any, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, map[string]any{
			"index_id":          m.Entry.Id,
			"folder_name":       m.Entry.FolderName,
			"title":             m.Entry.Title,
			"client":            m.Entry.Client,
			"sector":            m.Entry.Sector,
			"country":           m.Entry.Country,
			"technical_summary": m.Entry.TechnicalSummary,
			"pricing_summary":   m.Entry.PricingSummary,
			"total_price":       m.Entry.TotalPrice,
			"technologies":      m.Entry.Technologies,
			"rrf_score":         m.FusionScore,
			"distance":          m.Distance,
			"rank":              m.LexicalRank,
		})
	}

	return printJSON(map[string]any{
		"query":            resp.Query,
		"sector_filter":    resp.Sector,
		"search_mode":      resp.Mode,
		"vector_available": resp.VectorAvailable,
		"result_count":     len(matches),
		"matches":          matches,
	})
}

func reembedCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := reembed.DefaultConfig()
	cfg.BatchSize = c.Int("batch-size")

	result, err := svc.BackfillVectors(c.Context, cfg, os.Stderr)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"total":    result.Total,
		"embedded": result.Embedded,
		"failed":   result.Failed,
	})
}

func listCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	listing, err := svc.ListIndexedProposals(c.Context)
	if err != nil {
		return err
	}

	proposals := make([]map[string]any, 0, len(listing.Proposals))
	for _, entry := range listing.Proposals {
		proposals = append(proposals, map[string]any{
			"index_id":     entry.Id,
			"folder_name":  entry.FolderName,
			"title":        entry.Title,
			"client":       entry.Client,
			"sector":       entry.Sector,
			"country":      entry.Country,
			"total_price":  entry.TotalPrice,
			"file_count":   entry.FileCount,
			"technologies": entry.Technologies,
			"indexed_at":   entry.IndexedAt,
		})
	}

	return printJSON(map[string]any{
		"total_count":             listing.TotalCount,
		"by_sector":               listing.BySector,
		"by_country":              listing.ByCountry,
		"total_value":             listing.TotalValue,
		"vector_search_available": listing.VectorAvailable,
		"proposals":               proposals,
	})
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
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
