package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"google.golang.org/api/option"

	"trainpulse/internal/app"
	"trainpulse/internal/config"
	"trainpulse/internal/dataprocessing"
	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/exporter"
	"trainpulse/internal/infrastructure"
	"trainpulse/internal/services"
	"trainpulse/internal/sheets"
	"trainpulse/pkg/contracts"
	"trainpulse/pkg/contracts/domain"
)

// clientOptions are appended to the Sheets client options of every command
var clientOptions []option.ClientOption

const usage = `Usage: trainpulse <command> [flags]

Commands:
  serve        run the HTTP API
  export       write the movements as csv, json or xlsx
  stats        summary statistics of a numeric column
  timeseries   bucket movements by day, week or month
  pivot        cross-tabulate two columns
  watch        re-fetch on a schedule and print a summary per refresh
  version      print version information

Run "trainpulse <command> -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "trainpulse: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for usage
// problems, 1 for everything else
func exitCode(err error) int {
	var usageErr usageError
	if errors.As(err, &usageErr) || errors.Is(err, flag.ErrHelp) {
		return 2
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindMissingParameter, apperrors.KindValidation:
		return 2
	}
	return 1
}

type usageError string

func (e usageError) Error() string { return string(e) }

// command is the state shared by every subcommand
type command struct {
	cfg    *config.Config
	stdout io.Writer
	logger *slog.Logger
	query  services.Query
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return usageError("no command given")
	}

	name, args := args[0], args[1:]
	switch name {
	case "serve":
		return serve(args, stderr)
	case "export", "stats", "timeseries", "pivot", "watch":
	case "version":
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return usageError(fmt.Sprintf("unknown command %q", name))
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (default: config.yaml when present)")
	spreadsheet := fs.String("spreadsheet", "", "spreadsheet id (default from config)")
	rng := fs.String("range", "", "cell range, e.g. Sheet1!A1:L (default from config)")
	status := fs.String("status", "", "keep only movements with this status, e.g. TER or HO")

	var exec func(context.Context, *command) error
	switch name {
	case "export":
		exec = exportFlags(fs)
	case "stats":
		exec = statsFlags(fs)
	case "timeseries":
		exec = timeSeriesFlags(fs)
	case "pivot":
		exec = pivotFlags(fs)
	case "watch":
		exec = watchFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError(fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}

	// stdout carries the command output, logs go to stderr
	logger := infrastructure.NewLogger(stderr, cfg.Logging)

	return exec(ctx, &command{
		cfg:    cfg,
		stdout: stdout,
		logger: logger,
		query:  services.Query{SpreadsheetID: *spreadsheet, Range: *rng, Status: *status},
	})
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func serve(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (default: config.yaml when present)")
	port := fs.Int("port", 0, "listen port (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	application, err := app.NewApplication(cfg, clientOptions...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

// dataService builds the fetch pipeline for one command run
func (c *command) dataService(ctx context.Context) (*services.DataService, error) {
	fetcher, err := sheets.NewGoogleFetcher(ctx, c.cfg.Sheets, clientOptions, sheets.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	return services.NewDataService(fetcher, c.cfg.Sheets, c.logger), nil
}

func (c *command) transformer(ctx context.Context) (*dataprocessing.Transformer, error) {
	svc, err := c.dataService(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Transformer(ctx, c.query)
}

func (c *command) writeJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportFlags(fs *flag.FlagSet) func(context.Context, *command) error {
	out := fs.String("out", "", "output file; stdout when empty")
	format := fs.String("format", "", "csv, json or xlsx (default from -out extension, else csv)")
	bom := fs.Bool("bom", false, "prefix CSV output with a UTF-8 byte order mark")

	return func(ctx context.Context, c *command) error {
		if *format != "" {
			if _, err := exporter.ParseFormat(*format); err != nil {
				return apperrors.NewAppValidationError(err.Error())
			}
		}

		t, err := c.transformer(ctx)
		if err != nil {
			return err
		}

		exp := exporter.New(c.logger)
		exp.BOM = *bom
		if *out != "" {
			return exp.WriteFile(*out, t.Records(), *format)
		}

		f := *format
		if f == "" {
			f = config.FormatCSV
		}
		if err := exp.Write(c.stdout, t.Records(), f); err != nil {
			return err
		}
		if f == config.FormatCSV {
			// CSV has no trailing newline of its own
			fmt.Fprintln(c.stdout)
		}
		return nil
	}
}

func statsFlags(fs *flag.FlagSet) func(context.Context, *command) error {
	field := fs.String("field", domain.ColSlNo, "numeric column to describe")

	return func(ctx context.Context, c *command) error {
		t, err := c.transformer(ctx)
		if err != nil {
			return err
		}
		return c.writeJSON(t.CalculateStatistics(*field))
	}
}

func timeSeriesFlags(fs *flag.FlagSet) func(context.Context, *command) error {
	date := fs.String("date", domain.ColTimestamp, "date column")
	value := fs.String("value", "", "numeric column to sum per bucket; empty counts only")
	interval := fs.String("interval", string(dataprocessing.Day), "day, week or month")

	return func(ctx context.Context, c *command) error {
		iv, err := dataprocessing.ParseInterval(*interval)
		if err != nil {
			return apperrors.NewAppValidationError(err.Error())
		}

		t, err := c.transformer(ctx)
		if err != nil {
			return err
		}
		points, err := t.TimeSeries(*date, *value, iv)
		if err != nil {
			return err
		}
		return c.writeJSON(points)
	}
}

func pivotFlags(fs *flag.FlagSet) func(context.Context, *command) error {
	row := fs.String("row", domain.ColStation, "row key column")
	column := fs.String("column", domain.ColStatus, "column key column")
	value := fs.String("value", domain.ColUID, "value column")
	agg := fs.String("agg", "count", "aggregator: "+strings.Join(dataprocessing.AggregatorNames(), ", "))
	format := fs.String("format", config.FormatJSON, "csv, json or xlsx")

	return func(ctx context.Context, c *command) error {
		aggregator, err := dataprocessing.AggregatorByName(*agg)
		if err != nil {
			return apperrors.NewAppValidationError(err.Error())
		}
		if _, err := exporter.ParseFormat(*format); err != nil {
			return apperrors.NewAppValidationError(err.Error())
		}

		t, err := c.transformer(ctx)
		if err != nil {
			return err
		}
		pivot := t.PivotTable(*row, *column, *value, aggregator)
		if err := exporter.New(c.logger).Write(c.stdout, pivot.Records(), *format); err != nil {
			return err
		}
		if *format == config.FormatCSV {
			fmt.Fprintln(c.stdout)
		}
		return nil
	}
}

func watchFlags(fs *flag.FlagSet) func(context.Context, *command) error {
	schedule := fs.String("schedule", "", "cron spec or @every duration (default from config)")

	return func(ctx context.Context, c *command) error {
		spec := *schedule
		if spec == "" {
			spec = c.cfg.Watch.Schedule
		}

		svc, err := c.dataService(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(c.stdout)
		watcher, err := services.NewWatcher(svc, spec, c.query, func(s services.Snapshot) {
			line := map[string]interface{}{"fetched_at": s.FetchedAt, "rows": s.Rows, "by_status": s.ByStatus}
			if s.Err != nil {
				line["error"] = s.Err.Error()
				line["kind"] = apperrors.KindOf(s.Err)
			}
			enc.Encode(line)
		}, c.logger)
		if err != nil {
			return err
		}
		return watcher.Run(ctx)
	}
}
