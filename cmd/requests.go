package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mikelobato/qloudsound-api/internal/formatter"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	"github.com/urfave/cli/v3"
)

// RequestsList prints stored song requests, newest first.
func (r *Runner) RequestsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.resolveConfig(cmd)
	db, submissions, _, err := r.openStores(config)
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := submissions.List()
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	if useJSON {
		return r.writeJSON(list, pretty)
	}

	r.writePlain("%s\n", r.palette.Title("Song requests"))
	if len(list) == 0 {
		r.writePlain("%s\n", r.palette.Help("no requests"))
		return nil
	}

	for i, submission := range list {
		r.writePlain("%d. %s - %s [%s]\n", i+1, submission.Name, submission.Style, r.palette.SubmissionStatus(submission.Status))
		r.writePlain("   Email: %s\n", submission.Email)
		if submission.Description != "" {
			r.writePlain("   %s\n", submission.Description)
		}
		r.writePlain("   %s\n", r.palette.Help(submission.CreatedAt))
	}

	return nil
}

// RequestsShow prints a single request by id.
func (r *Runner) RequestsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: request id", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)
	db, submissions, _, err := r.openStores(config)
	if err != nil {
		return err
	}
	defer db.Close()

	submission, err := submissions.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}

	return r.writeJSON(submission, true)
}

// RequestsExport writes stored requests to a file as CSV or plain text.
func (r *Runner) RequestsExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputFile := cmd.String("output")

	config := r.resolveConfig(cmd)
	db, submissions, _, err := r.openStores(config)
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := submissions.List()
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.ExportSubmissionsToCSV(list)
	case "text", "txt":
		data, err = formatter.ExportSubmissionsToText(list)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format requests: %w", err)
	}

	if outputFile == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	r.logger.Infof("requests exported to %v with %v rows", outputFile, len(list))
	r.writePlain("✓ Requests exported to %s (%d rows)\n", outputFile, len(list))
	return nil
}

// requestsCommand handles stored song request listings
func requestsCommand(r *Runner) *cli.Command {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		}
	}

	return &cli.Command{
		Name:    "requests",
		Aliases: []string{"req"},
		Usage:   "Inspect stored song requests",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List song requests, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.RequestsList,
			},
			{
				Name:  "show",
				Usage: "Show a single request by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.RequestsShow,
			},
			{
				Name:  "export",
				Usage: "Export song requests to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (csv or text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.RequestsExport,
			},
		},
	}
}
