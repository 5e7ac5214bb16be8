/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		categories:     6,
		clues:          1,
		poolSize:       100,
		port:           8080,
		requestTimeout: 10 * time.Second,
		rows:           5,
		sessionTimeout: time.Hour,
		triviaAPI:      "https://jservice.io/api/",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "tls pair", mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		{name: "cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: "--tls-cert and --tls-key"},
		{name: "port zero", mutate: func(c *Config) { c.port = 0 }, wantErr: "invalid port"},
		{name: "port too large", mutate: func(c *Config) { c.port = 65536 }, wantErr: "invalid port"},
		{name: "no categories", mutate: func(c *Config) { c.categories = 0 }, wantErr: "category count"},
		{name: "no rows", mutate: func(c *Config) { c.rows = 0 }, wantErr: "row count"},
		{name: "no clues", mutate: func(c *Config) { c.clues = 0 }, wantErr: "clue count"},
		{name: "more clues than rows", mutate: func(c *Config) { c.clues = 8 }},
		{name: "pool smaller than board", mutate: func(c *Config) { c.poolSize = 5 }, wantErr: "pool size"},
		{name: "pool equal to board", mutate: func(c *Config) { c.poolSize = 6 }},
		{name: "negative offset", mutate: func(c *Config) { c.poolOffsetMax = -1 }, wantErr: "pool offset"},
		{name: "negative cache age", mutate: func(c *Config) { c.cacheMaxAge = -time.Second }, wantErr: "cache max age"},
		{name: "zero timeout", mutate: func(c *Config) { c.requestTimeout = 0 }, wantErr: "request timeout"},
		{name: "relative api", mutate: func(c *Config) { c.triviaAPI = "/api/" }, wantErr: "absolute"},
		{name: "empty api", mutate: func(c *Config) { c.triviaAPI = "" }, wantErr: "absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 6, cfg.categories)
	assert.Equal(t, 5, cfg.rows)
	assert.Equal(t, 1, cfg.clues)
	assert.Equal(t, 100, cfg.poolSize)
	assert.Equal(t, 0, cfg.poolOffsetMax)
	assert.Equal(t, 10*time.Second, cfg.requestTimeout)
	assert.Equal(t, time.Hour, cfg.sessionTimeout)
	assert.Equal(t, "https://jservice.io/api/", cfg.triviaAPI)
	assert.Empty(t, cfg.cache)
	assert.Equal(t, 7*24*time.Hour, cfg.cacheMaxAge)
	assert.NoError(t, cfg.validate())

	opts := cfg.options()
	assert.Equal(t, 6, opts.Categories)
	assert.Equal(t, 5, opts.Rows)
	assert.Equal(t, 1, opts.Clues)
}

func TestNewCmdEnvironment(t *testing.T) {
	t.Setenv("JEOPARDY_CATEGORIES", "3")
	t.Setenv("JEOPARDY_POOL_OFFSET_MAX", "50")
	t.Setenv("JEOPARDY_REQUEST_TIMEOUT", "3s")
	t.Setenv("JEOPARDY_TRIVIA_API", "http://localhost:3000/api/")
	t.Setenv("JEOPARDY_CACHE", "/tmp/jeopardy.db")
	t.Setenv("JEOPARDY_CACHE_MAX_AGE", "12h")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 3, cfg.categories)
	assert.Equal(t, 50, cfg.poolOffsetMax)
	assert.Equal(t, 3*time.Second, cfg.requestTimeout)
	assert.Equal(t, "http://localhost:3000/api/", cfg.triviaAPI)
	assert.Equal(t, "/tmp/jeopardy.db", cfg.cache)
	assert.Equal(t, 12*time.Hour, cfg.cacheMaxAge)
}

func TestNewCmdFlags(t *testing.T) {
	t.Setenv("JEOPARDY_ROWS", "2")

	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--rows", "4", "--pool_size=7", "-p", "9090", "--clues", "3"}))

	assert.Equal(t, 4, cfg.rows)
	assert.Equal(t, 7, cfg.poolSize)
	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 3, cfg.clues)
}
