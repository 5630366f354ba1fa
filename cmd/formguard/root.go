package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/store"
)

const envPrefix = "FORMGUARD"

// app holds state shared by the subcommands.
type app struct {
	v *viper.Viper
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "formguard",
		Short:         "Validated registration form for terminals and browsers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "YAML config file")
	flags.String("store", "", "store backend (memory, file, cache, sqlite, redis)")
	flags.String("store-path", "", "file path or sqlite DSN for the store")
	flags.String("redis-addr", "", "redis address for the redis backend")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("debug", false, "shorthand for --log-level=debug")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("store.backend", flags.Lookup("store"))
	_ = a.v.BindPFlag("store.path", flags.Lookup("store-path"))
	_ = a.v.BindPFlag("store.addr", flags.Lookup("redis-addr"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		a.newRegisterCmd(),
		a.newServeCmd(),
		a.newUsersCmd(),
	)
	return root
}

// loadConfig reads the config file, when set, and applies flag and
// environment overrides on top.
func (a *app) loadConfig() (config.Config, error) {
	cfg := config.Defaults()
	if path := strings.TrimSpace(a.v.GetString("config")); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if backend := strings.TrimSpace(a.v.GetString("store.backend")); backend != "" {
		cfg.Store.Backend = strings.ToLower(backend)
	}
	if path := strings.TrimSpace(a.v.GetString("store.path")); path != "" {
		cfg.Store.Path = path
	}
	if addr := strings.TrimSpace(a.v.GetString("store.addr")); addr != "" {
		cfg.Store.Addr = addr
	}
	if addr := strings.TrimSpace(a.v.GetString("http.addr")); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if level := strings.TrimSpace(a.v.GetString("log.level")); level != "" {
		cfg.Log.Level = level
	}
	if a.v.GetBool("debug") {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) logger(cfg config.Config, w io.Writer) *slog.Logger {
	return ctxlog.New(w, ctxlog.ParseLevel(cfg.Log.Level))
}

// openStore opens the configured backend. The returned closer is never nil.
func (a *app) openStore(cmd *cobra.Command, cfg config.Config) (store.Store, func(), error) {
	st, err := cfg.OpenStore(cmd.Context(), nil)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	closer := func() {}
	if c, ok := st.(io.Closer); ok {
		closer = func() { _ = c.Close() }
	}
	return st, closer, nil
}
