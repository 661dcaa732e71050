package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gridimport/domain/table"
	"gridimport/internal"
	"gridimport/internal/config"
	"gridimport/internal/container"
	"gridimport/internal/migration"
	"gridimport/internal/profiling"
	"gridimport/internal/report"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gridimport",
		Short:        "Parse spreadsheets into typed tables",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newParseCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadContainer(verbose bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := internal.ParseLogLevel(cfg.LogLevel)
	if !verbose && level > internal.LogLevelWarn {
		level = internal.LogLevelWarn
	}
	return container.New(cfg, internal.NewLogger(level))
}

func newParseCmd() *cobra.Command {
	var format string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a spreadsheet and print its tables",
		Long: `Parse an xlsx, csv or tsv file and print the warnings and typed tables.

Formats:
- json (default): {"warnings": [...], "tables": [...]}
- yaml: the same document as YAML
- markdown: the import report with column profiles

Example: gridimport parse orders.xlsx --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(verbose)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			path := args[0]
			result, err := c.ImportService.Parse(cmd.Context(), path, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			return render(cmd.OutOrStdout(), format, filepath.Base(path), result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or markdown")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log at the configured LOG_LEVEL instead of warnings only")

	return cmd
}

func render(w io.Writer, format, filename string, result *table.ParseResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(report.Input{
			Filename: filename,
			Warnings: result.Warnings,
			Tables:   result.Tables,
			Profiles: profiling.NewProfiler().ProfileTables(result.Tables),
		}))
		return err
	default:
		return fmt.Errorf("unknown format %q (use json, yaml or markdown)", format)
	}
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the import HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if port != "" {
				c.Config.Server.Port = port
			}
			if err := c.ConnectDatabase(cmd.Context()); err != nil {
				return err
			}
			return c.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default: PORT or 8080)")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the imports schema in DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return fmt.Errorf("DATABASE_URL is required")
			}

			db, err := sqlx.ConnectContext(cmd.Context(), "postgres", cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %s\n", runner.Version())
			return nil
		},
	}
}
