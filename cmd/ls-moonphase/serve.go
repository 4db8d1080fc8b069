package main

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-moonphase/internal/api"
	"github.com/litescript/ls-moonphase/internal/config"
	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve phases over HTTP",
	Long: `Serves a JSON API:

  GET /health
  GET /api/v1/phase?date=YYYY-MM-DD&source=local|ephemeris|almanac
  GET /api/v1/anchors?date=YYYY-MM-DD

When a config file is in use it is watched, and changes apply to the
next request without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = v.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := runContext(cmd)
	defer cancel()

	h := api.NewHandlers(newBackend(cfg), log)

	if f := v.ConfigFileUsed(); f != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			c, err := config.Load(v)
			if err != nil {
				log.Warn("config %s: keeping previous settings: %v", e.Name, err)
				return
			}
			if c.Addr != cfg.Addr {
				log.Warn("config %s: addr change needs a restart", e.Name)
			}
			h.Swap(newBackend(c))
			log.Info("config %s reloaded (source %s, ephemeris %s)", e.Name, c.Source, c.Ephemeris)
		})
		v.WatchConfig()
		log.Debug("watching %s", f)
	}

	return api.NewServer(cfg.Addr, h).ListenAndServe(ctx)
}

// newBackend builds one uncached service per source. Every request names
// its own date, so the today-only cache has nothing to offer here.
func newBackend(c config.Config) *api.Backend {
	services := make(map[moon.Mode]*moon.Service, len(moon.Modes))
	for _, mode := range moon.Modes {
		m := c
		m.Source = mode.String()
		services[mode] = newService(m, false)
	}

	provider := ephem.New(c.EphemerisMode())
	return &api.Backend{
		Default:   c.Mode(),
		Services:  services,
		Locator:   lunar.NewLocator(provider),
		Ephemeris: provider.Name(),
		Location:  time.Local,
		Now:       time.Now,
	}
}
