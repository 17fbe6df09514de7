// Package trackctl implements a command line client for the trackboard API.
package trackctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/pkg/logger"
)

type command struct {
	usage string
	run   func(ctx context.Context, c *Client, cfg *Config, args []string) error
}

var commands = map[string]command{ //nolint:gochecknoglobals // static command table
	"show":      {"show", runShow},
	"setup":     {"setup <sport> <athletes>", runSetup},
	"edit":      {"edit <row> <column> <value>", runEdit},
	"duplicate": {"duplicate <row>", rowAction(service.ActionDuplicate)},
	"delete":    {"delete <row>", rowAction(service.ActionDelete)},
	"sort":      {"sort <column>", columnAction(service.ActionSort)},
	"toggle":    {"toggle <column>", columnAction(service.ActionToggleColumn)},
	"import":    {"import <file|->", runImport},
	"reload":    {"reload", runReload},
	"seed":      {"seed [-athletes n] [-workers n] [-sport name]", runSeed},
	"verify":    {"verify", runVerify},
}

// Main runs one trackctl invocation and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("trackctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := Config{Out: stdout}
	fs.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the service")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	fs.Usage = func() { ShowHelp(stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logger:", err)
		return 1
	}
	level := "warn"
	if cfg.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	rest := fs.Args()
	if len(rest) == 0 {
		ShowHelp(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "%v: %s\n", ErrUnknownCommand, rest[0])
		ShowHelp(stderr)
		return 2
	}

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := cmd.run(ctx, client, &cfg, rest[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			fmt.Fprintf(stderr, "usage: trackctl %s\n", cmd.usage)
			return 2
		}
		logger.Get().Error(ctx, "command failed", logger.String("command", rest[0]), logger.Error(err))
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `trackctl drives a trackboard server from the terminal.

Usage:
  trackctl [-url URL] [-timeout D] [-verbose] <command> [args]

Commands:
`)
	for _, name := range []string{"show", "setup", "edit", "duplicate", "delete", "sort", "toggle", "import", "reload", "seed", "verify"} {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprint(w, `
Columns are numbered from 0: name, age, time, appearances, medals, country.
A column may also be given by field name.
`)
}

func runShow(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	v, err := c.Session(ctx)
	if err != nil {
		return err
	}
	printView(cfg.Out, v)
	return nil
}

func runSetup(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	v, err := c.Setup(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printView(cfg.Out, v)
	return nil
}

func runEdit(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return ErrUsage
	}
	col, err := parseColumn(args[1])
	if err != nil {
		return err
	}
	res, err := c.Apply(ctx, string(service.ActionEdit), row, col, args[2])
	if err != nil {
		return err
	}
	if res.Coerced {
		fmt.Fprintf(cfg.Out, "stored %q (coerced)\n", res.Stored)
	}
	printView(cfg.Out, res.View)
	return nil
}

func rowAction(tag service.ActionTag) func(context.Context, *Client, *Config, []string) error {
	return func(ctx context.Context, c *Client, cfg *Config, args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		row, err := strconv.Atoi(args[0])
		if err != nil {
			return ErrUsage
		}
		res, err := c.Apply(ctx, string(tag), row, 0, "")
		if err != nil {
			return err
		}
		printView(cfg.Out, res.View)
		return nil
	}
}

func columnAction(tag service.ActionTag) func(context.Context, *Client, *Config, []string) error {
	return func(ctx context.Context, c *Client, cfg *Config, args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		col, err := parseColumn(args[0])
		if err != nil {
			return err
		}
		res, err := c.Apply(ctx, string(tag), 0, col, "")
		if err != nil {
			return err
		}
		printView(cfg.Out, res.View)
		return nil
	}
}

func runImport(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	res, err := c.Import(ctx, r)
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cfg.Out, "skipped <%s class=\"uomTrack\">\n", s)
	}
	printView(cfg.Out, res.View)
	return nil
}

func runReload(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	v, err := c.Reload(ctx)
	if err != nil {
		return err
	}
	printView(cfg.Out, v)
	return nil
}

func runSeed(ctx context.Context, c *Client, cfg *Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := SeedOptions{}
	fs.IntVar(&opts.Athletes, "athletes", 8, "Number of athletes")
	fs.IntVar(&opts.Workers, "workers", DefaultWorkers, "Number of concurrent workers")
	fs.StringVar(&opts.Sport, "sport", "100m Sprint", "Event used when the table does not exist")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	stats, err := Seed(ctx, c, opts)
	fmt.Fprintf(cfg.Out, "seeded %d rows: %d edits, %d failed, %d coerced in %s\n",
		stats.Rows, stats.Submitted, stats.Failed, stats.Coerced, stats.Duration.Round(time.Millisecond))
	return err
}

func runVerify(ctx context.Context, c *Client, cfg *Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	v, err := Verify(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(cfg.Out, "ok: %d rows, best %s, worst %s, avg %s\n",
		len(v.Rows), v.Summary.Best, v.Summary.Worst, v.Summary.Average)
	return nil
}

// parseColumn accepts a column index or a field name.
func parseColumn(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	col, ok := schema.ByField(strings.ToLower(s))
	if !ok {
		return 0, fmt.Errorf("%w: unknown column %q", ErrUsage, s)
	}
	return col.Index, nil
}

func printView(w io.Writer, v View) {
	if !v.Initialized {
		fmt.Fprintf(w, "no table yet; run: trackctl setup <sport> <athletes>\nsports: %s\n", strings.Join(v.SportOptions, ", "))
		return
	}
	fmt.Fprintf(w, "%s (%d athletes)\n", v.Caption, v.NumberOfAthletes)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	visible := make([]service.HeaderView, 0, len(v.Headers))
	header := []string{"#"}
	for _, h := range v.Headers {
		if h.Hidden {
			continue
		}
		visible = append(visible, h)
		label := h.Label
		if h.Active {
			label += " (" + h.Order + ")"
		}
		header = append(header, label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range v.Rows {
		cells := []string{strconv.Itoa(i)}
		for _, h := range visible {
			cells = append(cells, row.Value(h.Column))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Best Time: %s  Worst Time: %s  Avg. Time: %s\n", v.Summary.Best, v.Summary.Worst, v.Summary.Average)
}
