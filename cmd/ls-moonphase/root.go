package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-moonphase/internal/almanac"
	"github.com/litescript/ls-moonphase/internal/cache"
	"github.com/litescript/ls-moonphase/internal/config"
	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/logging"
	"github.com/litescript/ls-moonphase/internal/moon"
)

var (
	v   = viper.New()
	cfg config.Config
	log = logging.New(logging.LevelWarn)

	cfgFile  string
	dateFlag string
	noCache  bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "ls-moonphase",
	Short: "Print the phase of the moon as a glyph",
	Long: `ls-moonphase prints today's moon phase as a single glyph, suitable for a
shell prompt or status bar. The phase comes from one of three sources:

  ephemeris  primary phase times from the Meeus lunar theory (default)
  local      calendar arithmetic against a known new moon
  almanac    the USNO one-day almanac (network)

Today's answer is cached for the rest of the day.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default .ls-moonphase.yaml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.String("source", "", "phase source (local, ephemeris, almanac)")
	pf.String("ephemeris", "", "ephemeris for the resolver (meeus, mean)")
	pf.String("location", "", `almanac location as "City, ST"`)
	pf.StringVar(&dateFlag, "date", "", "date as YYYY-MM-DD (default today)")

	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the day cache")

	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("source", pf.Lookup("source"))
	_ = v.BindPFlag("ephemeris", pf.Lookup("ephemeris"))
	_ = v.BindPFlag("location", pf.Lookup("location"))

	rootCmd.AddCommand(compareCmd, calendarCmd, tuiCmd, serveCmd, versionCmd)
}

// setup loads configuration and applies it to the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	if noCache {
		c.CacheEnabled = false
	}
	if verbose {
		c.LogLevel = "debug"
	}

	log.SetLevel(logging.ParseLevel(c.LogLevel))
	if f := v.ConfigFileUsed(); f != "" {
		log.Debug("config file %s", f)
	}
	cfg = c
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	t, err := parseDate(dateFlag, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := runContext(cmd)
	defer cancel()

	svc := newService(cfg, cfg.CacheEnabled)
	res, err := svc.Resolve(ctx, t)
	if err != nil {
		return err
	}
	log.Debug("%s via %s (cached=%v)", res.Name, res.Source, res.Cached)

	out := cmd.OutOrStdout()
	if !res.Known() {
		fmt.Fprintf(out, "Don't know phase: %s\n", res.Name)
		return nil
	}
	fmt.Fprintln(out, res.Glyph)
	return nil
}

// newService wires the configured source, optionally behind the day cache.
func newService(c config.Config, useCache bool) *moon.Service {
	src := moon.NewSource(c.Mode(), moon.Deps{
		Ephemeris: ephem.New(c.EphemerisMode()),
		Almanac:   newAlmanac(c),
		Logger:    log,
	})

	opts := []moon.Option{moon.WithLogger(log)}
	if useCache {
		opts = append(opts, moon.WithCache(cache.New(c.CachePath)))
	}
	return moon.NewService(src, opts...)
}

func newAlmanac(c config.Config) *almanac.Client {
	return almanac.NewClient(
		almanac.WithBaseURL(c.AlmanacURL),
		almanac.WithTimeout(c.Timeout),
		almanac.WithLocation(c.Location),
	)
}

// parseDate reads a YYYY-MM-DD flag in the local zone. Empty means now.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runContext returns a context cancelled on SIGINT or SIGTERM.
func runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
