package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"

	"github.com/xtding233/gacha-calc/configs"
	"github.com/xtding233/gacha-calc/internal/dist"
	"github.com/xtding233/gacha-calc/internal/gacha"
	"github.com/xtding233/gacha-calc/internal/game"
	"github.com/xtding233/gacha-calc/internal/logger"
	"github.com/xtding233/gacha-calc/internal/pricing"
	"github.com/xtding233/gacha-calc/internal/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "pitycalc:", err)
		os.Exit(1)
	}
}

type options struct {
	requests  requestList
	configDir string
	list      bool
	trials    int
	seed      uint64
	out       string
	logMode   string
	lang      string
	quantiles string
	cdf       bool
	firstTime bool
	progress  bool

	overrides  game.Overrides
	overridden bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	flags := flag.NewFlagSet("pitycalc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Var(&o.requests, "q", "query game/pool[:items[:pity]][,g][,radiance=N][,type=N][,owned=N][,spark=N]; repeat to sum banners")
	flags.StringVar(&o.configDir, "config", "", "directory holding games/ (default: built-in configs)")
	flags.BoolVar(&o.list, "list", false, "list registered pools and exit")
	flags.IntVar(&o.trials, "simulate", 0, "Monte Carlo trials cross-checking the exact result")
	flags.Uint64Var(&o.seed, "seed", 0, "RNG seed for -simulate (0: crypto random)")
	flags.StringVar(&o.out, "out", "", "export the summary to .json or .yaml, optionally .zst compressed")
	flags.StringVar(&o.logMode, "log", "silent", "log mode: dev, prod or silent")
	flags.StringVar(&o.lang, "lang", "en", "locale for number formatting")
	flags.StringVar(&o.quantiles, "quantiles", "", "comma-separated quantiles (default 0.1,0.25,0.5,0.75,0.9,0.99)")
	flags.BoolVar(&o.cdf, "cdf", false, "keep the full CDF in exports")
	flags.BoolVar(&o.firstTime, "first-time", false, "assume first-time x2 bonuses are still available")
	flags.BoolVar(&o.progress, "progress", true, "show a progress bar while simulating")

	floatOverride := func(dst **float64) func(string) error {
		return func(s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*dst, o.overridden = &v, true
			return nil
		}
	}
	intOverride := func(dst **int) func(string) error {
		return func(s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*dst, o.overridden = &v, true
			return nil
		}
	}
	ov := &o.overrides
	flags.Func("up-rate", "override the featured rate of every queried pool", floatOverride(&ov.UpRate))
	flags.Func("base", "override the base rate of every queried pool", floatOverride(&ov.Base))
	flags.Func("hard-pity", "override the hard pity of every queried pool", intOverride(&ov.Pity))
	flags.Func("first-cap", "override the first-copy cap of spark pools", intOverride(&ov.FirstCap))

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %v", flags.Args())
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	mode, err := logger.ParseMode(o.logMode)
	if err != nil {
		return err
	}
	log := logger.New(mode, stderr)

	fsys := fs.FS(configs.FS)
	if o.configDir != "" {
		fsys = os.DirFS(o.configDir)
	}
	loader := game.NewLoader(fsys)
	reg, err := game.Build(loader, log)
	if err != nil {
		return err
	}

	if o.list {
		for _, k := range reg.Keys() {
			e := reg[k]
			fmt.Fprintf(stdout, "%s %s %s\n", runewidth.FillRight(k.String(), 32), runewidth.FillRight(string(e.Model.Kind()), 20), e.Name)
		}
		return nil
	}
	if len(o.requests) == 0 {
		return errors.New("no query; use -q game/pool[:items[:pity]] or -list")
	}
	qs, err := parseQuantiles(o.quantiles)
	if err != nil {
		return err
	}
	tag, err := language.Parse(o.lang)
	if err != nil {
		return fmt.Errorf("lang: %w", err)
	}

	entries := make([]game.Entry, len(o.requests))
	for i, r := range o.requests {
		if o.overridden {
			_, entries[i], err = loader.Resolve(r.Key.Game, r.Key.Pool, o.overrides)
		} else {
			entries[i], err = reg.Lookup(r.Key)
		}
		if err != nil {
			return err
		}
	}

	total, err := solve(o.requests, entries, log)
	if err != nil {
		return err
	}

	titles := make([]string, len(o.requests))
	for i, r := range o.requests {
		titles[i] = r.Key.String()
	}
	kind := entries[0].Model.Kind()
	items := o.requests[0].Query.Items
	if len(entries) > 1 {
		kind = "combined"
		for _, r := range o.requests[1:] {
			items += r.Query.Items
		}
	}
	summary, err := report.Summarize(strings.Join(titles, " + "), kind, items, total, qs, o.cdf)
	if err != nil {
		return err
	}

	if o.trials > 0 {
		st, err := simulate(o, entries, stderr)
		if err != nil {
			return err
		}
		summary.Simulation = &st
		log.Info("simulation done", slog.Int("trials", st.Trials), slog.Float64("mean", st.Mean))
	}

	if sameGame(o.requests) {
		var first pricing.FirstTimeState
		if cat := entries[0].Catalog; cat != nil && o.firstTime {
			first = pricing.AllFirstTime(*cat)
		}
		if err := report.Project(&summary, entries[0].Token, entries[0].Catalog, first); err != nil {
			return err
		}
	} else {
		log.Warn("queries span several games; skipping currency projection")
	}

	if err := report.NewPrinter(tag).Write(stdout, summary); err != nil {
		return err
	}
	if o.out != "" {
		if err := report.Export(o.out, summary); err != nil {
			return err
		}
		log.Info("summary exported", slog.String("path", o.out))
	}
	return nil
}

// solve convolves the per-banner distributions; banners are independent.
func solve(reqs []request, entries []game.Entry, log *slog.Logger) (*dist.Distribution, error) {
	total := dist.Point(0)
	for i, r := range reqs {
		d, err := entries[i].Model.Call(r.Query)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Key, err)
		}
		log.Debug("query solved",
			slog.String("game", r.Key.Game),
			slog.String("pool", r.Key.Pool),
			slog.String("kind", string(entries[i].Model.Kind())),
			slog.Int("items", r.Query.Items),
			slog.Float64("mass", d.Mass()),
		)
		total = total.Convolve(d)
	}
	return total, nil
}

// simulate replays every banner trials times and sums the pulls per trial.
func simulate(o *options, entries []game.Entry, stderr io.Writer) (gacha.Stats, error) {
	rng := gacha.DefaultRNG()
	if o.seed != 0 {
		rng = gacha.NewSeededRNG(o.seed)
	}
	bar := pb.New(o.trials * len(entries)).SetWriter(stderr)
	if !o.progress {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	defer bar.Finish()

	sums := make([]int, o.trials)
	for i, r := range o.requests {
		st, err := gacha.Simulate(entries[i].Model, r.Query, o.trials, rng, func() { bar.Increment() })
		if err != nil {
			return gacha.Stats{}, fmt.Errorf("%s: %w", r.Key, err)
		}
		for j, n := range st.Samples {
			sums[j] += n
		}
	}
	return gacha.StatsOf(sums), nil
}

func sameGame(reqs []request) bool {
	for _, r := range reqs[1:] {
		if r.Key.Game != reqs[0].Key.Game {
			return false
		}
	}
	return true
}
