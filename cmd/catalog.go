package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mikelobato/qloudsound-api/internal/formatter"
	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	"github.com/urfave/cli/v3"
)

// CatalogList prints catalog entries, optionally filtered by status.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	status := models.CatalogStatus(cmd.String("status"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if status != "" && status != models.CatalogRequested && status != models.CatalogPublished {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
	}

	config := r.resolveConfig(cmd)
	db, _, catalog, err := r.openStores(config)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := catalog.List(status)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	r.writePlain("%s\n", r.palette.Title("Catalog"))
	if len(entries) == 0 {
		r.writePlain("%s\n", r.palette.Help("no entries"))
		return nil
	}

	for i, entry := range entries {
		r.writePlain("%d. %s [%s]\n", i+1, entry.Title, r.palette.CatalogStatus(entry.Status))
		if entry.ISRC != "" {
			r.writePlain("   ISRC: %s\n", entry.ISRC)
		}
		if entry.UPC != "" {
			r.writePlain("   UPC: %s\n", entry.UPC)
		}
		r.writePlain("   %s\n", r.palette.Help(entry.SubmittedAt))
	}

	return nil
}

// CatalogExport writes the catalog to a file as CSV or Markdown.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	status := models.CatalogStatus(cmd.String("status"))
	format := cmd.String("format")
	outputFile := cmd.String("output")

	config := r.resolveConfig(cmd)
	db, _, catalog, err := r.openStores(config)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := catalog.List(status)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.ExportCatalogToCSV(entries)
	case "markdown", "md":
		data, err = formatter.ExportCatalogToMarkdown("Catalog", entries)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format catalog: %w", err)
	}

	if outputFile == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	r.logger.Infof("catalog exported to %v with %v entries", outputFile, len(entries))
	r.writePlain("✓ Catalog exported to %s (%d entries)\n", outputFile, len(entries))
	return nil
}

// catalogCommand handles catalog listings and exports
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (requested or published, empty for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "export",
				Usage: "Export catalog entries to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (requested or published, empty for all)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (csv or markdown)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}
