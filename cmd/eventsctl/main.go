// Command eventsctl fetches EONET events from the command line and prints
// the same filtered table the dashboard shows.
//
// Usage:
//
//	eventsctl [--days N] [--status open|closed] table [--year Y] [--category C ...]
//	eventsctl options
//	eventsctl dump --out events.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/adapter/eonet"
	"github.com/couchcryptid/disaster-dashboard/internal/config"
	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
	"github.com/couchcryptid/disaster-dashboard/internal/pipeline"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
)

type globalOptions struct {
	BaseURL  string `long:"base-url" env:"EONET_BASE_URL" default:"https://eonet.gsfc.nasa.gov/api/v3/events" description:"EONET events endpoint"`
	Days     int    `long:"days" env:"EONET_LOOKBACK_DAYS" default:"3650" description:"Lookback window in days"`
	Status   string `long:"status" env:"EONET_STATUS" default:"closed" choice:"open" choice:"closed" description:"Event status filter"`
	Timeout  string `long:"timeout" env:"EONET_TIMEOUT" default:"30s" description:"Upstream request timeout"`
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"warn" description:"Log level (debug, info, warn, error)"`
}

// app carries the parsed global options and output streams to every command.
type app struct {
	opts   globalOptions
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{ctx: ctx, stdout: stdout, stderr: stderr}
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "eventsctl"
	if err := addCommands(parser, a); err != nil {
		fmt.Fprintln(stderr, "eventsctl:", err)
		return 1
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, "eventsctl:", err)
		return 1
	}
	return 0
}

func addCommands(parser *flags.Parser, a *app) error {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"table", "Print the filtered event table", "Print the events for one year and a set of categories as an aligned table.", &tableCommand{app: a}},
		{"options", "List available years and categories", "List every year and category in the fetched table with event counts.", &optionsCommand{app: a}},
		{"dump", "Write raw events as JSON", "Fetch raw EONET events and write them as indented JSON, suitable as a test fixture.", &dumpCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return fmt.Errorf("register %s command: %w", c.name, err)
		}
	}
	return nil
}

func (a *app) query() (domain.Query, error) {
	status, err := domain.ParseEventStatus(a.opts.Status)
	if err != nil {
		return domain.Query{}, err
	}
	if a.opts.Days <= 0 {
		return domain.Query{}, fmt.Errorf("invalid --days %d: must be positive", a.opts.Days)
	}
	return domain.Query{LookbackDays: a.opts.Days, Status: status}, nil
}

func (a *app) client() (*eonet.Client, error) {
	timeout, err := time.ParseDuration(a.opts.Timeout)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid --timeout %q: must be a positive duration", a.opts.Timeout)
	}
	baseURL := a.opts.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultEONETBaseURL
	}
	return eonet.NewClient(baseURL, timeout, observability.NewMetricsWith(prometheus.NewRegistry()), a.logger()), nil
}

func (a *app) logger() *slog.Logger {
	return observability.NewLoggerTo(a.stderr, a.opts.LogLevel, "text")
}

// load fetches and normalizes the event table. A fetch failure is returned
// as an error so the process exits non-zero.
func (a *app) load() (domain.Dataset, error) {
	q, err := a.query()
	if err != nil {
		return domain.Dataset{}, err
	}
	client, err := a.client()
	if err != nil {
		return domain.Dataset{}, err
	}
	p := pipeline.New(client, q, a.logger(), observability.NewMetricsWith(prometheus.NewRegistry()))
	ds := p.Load(a.ctx)
	return ds, ds.Err
}
