package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"babynames/internal/config"
	"babynames/internal/console"
	"babynames/internal/engine"
	"babynames/internal/report"
	"babynames/internal/session"

	"github.com/labstack/gommon/color"
	"github.com/labstack/gommon/log"
)

const (
	ssaURL    = "https://www.ssa.gov/oact/babynames/limits.html"
	goodbye   = "Thank you for using the Baby Name Generator!"
	greetings = "Hello! This application lets you browse baby names from SSA data."
)

// Deps carries the process-level collaborators Run does not build itself.
type Deps struct {
	Logger  *log.Logger
	Palette *color.Color
	// Rand overrides the sampler's source; nil seeds from cfg.Seed or the clock.
	Rand *rand.Rand
}

// Run drives the whole pipeline: load, aggregate, browse, summarize.
// Missing or empty data is reported to out and is not an error.
func Run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = log.New("babynames")
		logger.SetLevel(log.OFF)
	}
	pal := deps.Palette
	if pal == nil {
		pal = console.Plain()
	}

	fmt.Fprintln(out, pal.Bold(greetings))
	fmt.Fprintf(out, "Download the data from %s and extract it into a folder named '%s'.\n\n", ssaURL, cfg.DataDir)
	defer fmt.Fprintln(out, "\n"+goodbye)

	store, err := engine.LoadDir(cfg.DataDir, engine.WithLogger(logger))
	switch {
	case errors.Is(err, engine.ErrDataDirMissing):
		logger.Warnf("load: %v", err)
		fmt.Fprintf(out, "Error: The '%s' folder was not found.\n", cfg.DataDir)
		fmt.Fprintf(out, "Please create a folder named '%s' and place the yobYYYY.txt files inside it.\n", cfg.DataDir)
		return nil
	case err != nil:
		return fmt.Errorf("load names: %w", err)
	}
	if store.Len() == 0 {
		logger.Warnf("load: %v in %s", engine.ErrNoRecords, cfg.DataDir)
		fmt.Fprintf(out, "No yobYYYY.txt files found in the '%s' folder, or no names could be loaded.\n", cfg.DataDir)
		fmt.Fprintln(out, "Please ensure your files are correctly placed and formatted.")
		return nil
	}

	idx := store.Aggregate()
	fmt.Fprintln(out, pal.Green(fmt.Sprintf("Names loaded successfully! (%d records)", store.Len())))

	rng := deps.Rand
	if rng == nil {
		rng = newRand(cfg.Seed)
	}
	sess := session.New(idx, engine.NewSampler(rng), out, pal, session.Options{
		BatchSize: cfg.BatchSize,
		NoRepeat:  cfg.NoRepeat,
		Logger:    logger,
	})
	if err := sess.Run(ctx, in); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	entries := report.Build(sess.Liked().Keys(), idx)
	if err := report.Write(out, entries, report.Format(cfg.SummaryFormat)); err != nil {
		return err
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
