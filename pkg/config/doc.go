// Package config loads typed configuration structs from environment
// variables (github.com/caarlos0/env/v11), bootstrapping a local .env file
// through github.com/joho/godotenv on first use.
//
// Every infrastructure package in this module ships its own Config struct
// with `env` tags, so a binary composes what it needs:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// Load caches one value per type. Parse skips the cache, which is what tests
// that mutate the environment with t.Setenv want.
package config
