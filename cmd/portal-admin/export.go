package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sman1jakarta/portal/internal/service"
)

type exportOptions struct {
	Timeout time.Duration
	Query   string
	Compact bool
}

func parseExportFlags(args []string) (exportOptions, error) {
	fs := newFlagSet("export")
	opts := exportOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the export document")
	fs.BoolVar(&opts.Compact, "compact", false, "Print single-line JSON")
	if err := fs.Parse(args); err != nil {
		return exportOptions{}, err
	}
	if err := checkTimeout(opts.Timeout); err != nil {
		return exportOptions{}, err
	}
	return opts, nil
}

func runExport(cmdCtx *commandContext, args []string) error {
	opts, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repos, repoErr := postgresRepositories(cmdCtx, db)
		if repoErr != nil {
			return repoErr
		}
		store := service.NewSettingsStore(service.SettingsStoreOptions{Repo: repos.Settings, Logger: cmdCtx.Logger})
		store.Load(ctx)
		svc := service.NewExportService(service.ExportServiceOptions{
			Settings: store,
			News:     repos.News,
			Gallery:  repos.Gallery,
			Contacts: repos.Contacts,
			Users:    repos.Users,
		})
		out, exportErr := svc.Export(ctx, opts.Query)
		if exportErr != nil {
			return fmt.Errorf("export: %w", exportErr)
		}
		return printJSON(os.Stdout, out, opts.Compact)
	})
}

func printJSON(out io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(out)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
