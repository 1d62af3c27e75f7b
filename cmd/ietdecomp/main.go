// Command ietdecomp decomposes the interval exchange transformations listed
// in fixture files and writes a JSON or CBOR report.
//
//	ietdecomp [flags] FILE...
//
// With --db, reports are also stored in SQLite, and inputs already decomposed
// with the same step bound are answered from the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/ietx/boshernitzan"
	"github.com/katalvlaran/ietx/decompose"
)

const version = "0.1.0"

var errVersion = errors.New("version requested")

type config struct {
	maxSteps   int
	workers    int
	format     string
	output     string
	db         string
	noZorich   bool
	window     int
	checkEvery int
	signCache  int
	logLevel   string
	version    bool
	files      []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process: it returns the exit status
// (0 ok, 1 failure, 2 bad usage).
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, errVersion):
		fmt.Fprintf(stdout, "ietdecomp %s\n", version)

		return 0
	case err != nil:
		fmt.Fprintf(stderr, "ietdecomp: %v\n", err)

		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	lvl, _ := logrus.ParseLevel(cfg.logLevel)
	log.SetLevel(lvl)

	if err := execute(ctx, cfg, log, stdout); err != nil {
		log.WithError(err).Error("ietdecomp failed")

		return 1
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := pflag.NewFlagSet("ietdecomp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ietdecomp [flags] FILE...\n\n")
		fmt.Fprintf(stderr, "Decompose IETs from YAML or JSONC fixture files into periodic and minimal components.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	fs.IntVarP(&cfg.maxSteps, "max-steps", "n", decompose.DefaultMaxSteps, "induction steps per lineage, unless the file sets max_steps")
	fs.IntVarP(&cfg.workers, "workers", "w", runtime.GOMAXPROCS(0), "inputs decomposed in parallel")
	fs.StringVarP(&cfg.format, "format", "f", "json", "report format: json or cbor")
	fs.StringVarP(&cfg.output, "output", "o", "", "write the report to this file instead of stdout")
	fs.StringVar(&cfg.db, "db", "", "SQLite database for storing and reusing reports")
	fs.BoolVar(&cfg.noZorich, "no-zorich", false, "use elementary Rauzy steps instead of Zorich acceleration")
	fs.IntVar(&cfg.window, "window", boshernitzan.DefaultWindow, "induced states remembered for recurrence detection (0 disables)")
	fs.IntVar(&cfg.checkEvery, "check-every", boshernitzan.DefaultCheckEvery, "run the LP certificate every k-th classification")
	fs.IntVar(&cfg.signCache, "sign-cache", 0, "sign cache entries shared by all fields (0: default size, negative: off)")
	fs.StringVar(&cfg.logLevel, "log-level", "warning", "panic, fatal, error, warning, info, debug or trace")
	fs.BoolVarP(&cfg.version, "version", "V", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.version {
		return cfg, errVersion
	}
	cfg.files = fs.Args()

	switch {
	case len(cfg.files) == 0:
		return cfg, errors.New("no fixture files given")
	case cfg.maxSteps < 0:
		return cfg, fmt.Errorf("--max-steps must be ≥ 0, got %d", cfg.maxSteps)
	case cfg.workers < 1:
		return cfg, fmt.Errorf("--workers must be ≥ 1, got %d", cfg.workers)
	case cfg.window < 0:
		return cfg, fmt.Errorf("--window must be ≥ 0, got %d", cfg.window)
	case cfg.checkEvery < 1:
		return cfg, fmt.Errorf("--check-every must be ≥ 1, got %d", cfg.checkEvery)
	case cfg.format != "json" && cfg.format != "cbor":
		return cfg, fmt.Errorf("--format must be json or cbor, got %q", cfg.format)
	}
	if _, err := logrus.ParseLevel(cfg.logLevel); err != nil {
		return cfg, err
	}

	return cfg, nil
}
