package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/codec"
	"github.com/katalvlaran/ietx/decompose"
	"github.com/katalvlaran/ietx/fixture"
	"github.com/katalvlaran/ietx/store"
)

// execute loads every file, decomposes what the database cannot answer and
// writes one report covering all inputs in file order.
func execute(ctx context.Context, cfg config, log *logrus.Logger, stdout io.Writer) error {
	var fieldOpts []algebraic.FieldOption
	if cfg.signCache >= 0 {
		fieldOpts = append(fieldOpts, algebraic.WithSignCache(algebraic.NewSignCache(cfg.signCache)))
	}

	var cases []fixture.Case
	for _, path := range cfg.files {
		cs, err := fixture.Load(path, fieldOpts...)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "iets": len(cs)}).Info("loaded fixture")
		cases = append(cases, cs...)
	}

	var db *store.Store
	if cfg.db != "" {
		var err error
		if db, err = store.Open(cfg.db); err != nil {
			return err
		}
		defer db.Close()
	}

	reports := make([]codec.CaseReport, len(cases))
	var (
		inputs   []decompose.Input
		settings []codec.Settings
		slots    []int
	)
	for i, c := range cases {
		st := codec.Settings{
			MaxSteps:   cfg.maxSteps,
			Zorich:     !cfg.noZorich,
			Window:     cfg.window,
			CheckEvery: cfg.checkEvery,
		}
		if c.MaxSteps > 0 {
			st.MaxSteps = c.MaxSteps
		}
		if db != nil {
			r, ok, err := db.Lookup(ctx, codec.NewIETReport(c.IET), st)
			if err != nil {
				return err
			}
			if ok {
				r.Name = c.Name
				reports[i] = r
				log.WithField("input", c.Name).Info("answered from database")

				continue
			}
		}
		inputs = append(inputs, decompose.Input{Name: c.Name, IET: c.IET, MaxSteps: st.MaxSteps})
		settings = append(settings, st)
		slots = append(slots, i)
	}

	opts := []decompose.Option{
		decompose.WithLogger(log),
		decompose.WithWorkers(cfg.workers),
		decompose.WithZorich(!cfg.noZorich),
		decompose.WithWindow(cfg.window),
		decompose.WithCheckEvery(cfg.checkEvery),
	}
	outs, err := decompose.Batch(ctx, inputs, opts...)
	if err != nil {
		return err
	}
	for j, o := range outs {
		r := codec.NewCaseReport(o.Name, inputs[j].IET, o.Result, settings[j])
		reports[slots[j]] = r
		if db != nil {
			run, err := db.Save(ctx, r)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"input": o.Name, "run": run.ID}).Debug("stored run")
		}
	}

	return writeReport(cfg, codec.NewReport(reports...), stdout)
}

func writeReport(cfg config, r *codec.Report, stdout io.Writer) error {
	format, err := codec.ParseFormat(cfg.format)
	if err != nil {
		return err
	}
	if cfg.output == "" {
		return codec.Write(stdout, format, r)
	}
	f, err := os.Create(cfg.output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.output, err)
	}
	if err := codec.Write(f, format, r); err != nil {
		f.Close()

		return fmt.Errorf("writing %s: %w", cfg.output, err)
	}

	return f.Close()
}
