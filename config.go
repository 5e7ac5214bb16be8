/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/jeopardy/games/jeopardy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	cache          string
	cacheMaxAge    time.Duration
	categories     int
	clues          int
	poolOffsetMax  int
	poolSize       int
	port           int
	prefix         string
	profile        bool
	requestTimeout time.Duration
	rows           int
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	triviaAPI      string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.categories < 1 {
		return fmt.Errorf("invalid category count (must be at least 1): %d", c.categories)
	}
	if c.rows < 1 {
		return fmt.Errorf("invalid row count (must be at least 1): %d", c.rows)
	}
	if c.clues < 1 {
		return fmt.Errorf("invalid clue count (must be at least 1): %d", c.clues)
	}
	if c.poolSize < c.categories {
		return fmt.Errorf("invalid pool size (must be at least --categories, %d): %d", c.categories, c.poolSize)
	}
	if c.poolOffsetMax < 0 {
		return fmt.Errorf("invalid pool offset (must not be negative): %d", c.poolOffsetMax)
	}
	if c.cacheMaxAge < 0 {
		return fmt.Errorf("invalid cache max age (must not be negative): %s", c.cacheMaxAge)
	}
	if c.requestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout (must be positive): %s", c.requestTimeout)
	}
	if _, err := jeopardy.NewHTTPService(c.triviaAPI, nil); err != nil {
		return err
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) options() jeopardy.Options {
	return jeopardy.Options{
		Categories: c.categories,
		Rows:       c.rows,
		Clues:      c.clues,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("JEOPARDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "jeopardy",
		Short:         "A trivia board game, served as a webapp and backed by a public trivia API.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := jeopardy.DefaultOptions()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: JEOPARDY_BIND)")
	fs.StringVar(&cfg.cache, "cache", "", "path to sqlite database for caching categories, disabled if empty (env: JEOPARDY_CACHE)")
	fs.DurationVar(&cfg.cacheMaxAge, "cache-max-age", 7*24*time.Hour, "time before a cached category is fetched again, 0 to keep forever (env: JEOPARDY_CACHE_MAX_AGE)")
	fs.IntVar(&cfg.categories, "categories", defaults.Categories, "categories per board (env: JEOPARDY_CATEGORIES)")
	fs.IntVar(&cfg.clues, "clues", defaults.Clues, "clues sampled per category (env: JEOPARDY_CLUES)")
	fs.IntVar(&cfg.poolOffsetMax, "pool-offset-max", 0, "largest random offset into the category listing (env: JEOPARDY_POOL_OFFSET_MAX)")
	fs.IntVar(&cfg.poolSize, "pool-size", 100, "categories to choose from per board (env: JEOPARDY_POOL_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: JEOPARDY_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: JEOPARDY_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: JEOPARDY_PROFILE)")
	fs.DurationVar(&cfg.requestTimeout, "request-timeout", 10*time.Second, "timeout for each trivia API request (env: JEOPARDY_REQUEST_TIMEOUT)")
	fs.IntVar(&cfg.rows, "rows", defaults.Rows, "clue rows displayed per category (env: JEOPARDY_ROWS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle boards are ended (env: JEOPARDY_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: JEOPARDY_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: JEOPARDY_TLS_KEY)")
	fs.StringVar(&cfg.triviaAPI, "trivia-api", "https://jservice.io/api/", "base URL of the trivia API (env: JEOPARDY_TRIVIA_API)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: JEOPARDY_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: JEOPARDY_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("jeopardy v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
