// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage/qdrant"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendQdrant = "qdrant"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration written as a string such as "10s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// StoreConfig selects and locates the index backend.
type StoreConfig struct {
	Backend string        `toml:"backend"`
	Path    string        `toml:"path"`
	Qdrant  qdrant.Config `toml:"qdrant"`
}

// IndexConfig names the two indexes.
type IndexConfig struct {
	Customer   string `toml:"customer"`
	CRM        string `toml:"crm"`
	ScopeField string `toml:"scope_field"`
}

// Name returns the configured index name for kind.
func (c IndexConfig) Name(kind core.Kind) string {
	if kind == core.KindCustomer {
		return c.Customer
	}
	return c.CRM
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	MaxTokens int    `toml:"max_tokens"`
	Workers   int    `toml:"workers"`
	Extension string `toml:"extension"`
	OutputDir string `toml:"output_dir"`
}

// ChatConfig tunes the answer loop.
type ChatConfig struct {
	K            int      `toml:"k"`
	Scope        string   `toml:"scope"`
	MaxAttempts  int      `toml:"max_attempts"`
	RetryDelay   Duration `toml:"retry_delay"`
	Timeout      Duration `toml:"timeout"`
	ExitSentinel string   `toml:"exit_sentinel"`
	Instructions string   `toml:"instructions"`
}

// Config is the complete mithril configuration.
type Config struct {
	AI      ai.Config    `toml:"ai"`
	Store   StoreConfig  `toml:"store"`
	Indexes IndexConfig  `toml:"indexes"`
	Ingest  IngestConfig `toml:"ingest"`
	Chat    ChatConfig   `toml:"chat"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AI: *ai.DefaultConfig(),
		Store: StoreConfig{
			Backend: BackendBadger,
			Path:    "mithril.db",
			Qdrant:  qdrant.Config{Host: "localhost", Port: qdrant.DefaultPort},
		},
		Indexes: IndexConfig{
			Customer:   "customers",
			CRM:        "crm",
			ScopeField: core.DefaultScopeField,
		},
		Ingest: IngestConfig{
			MaxTokens: 8191,
			Extension: ".md",
			OutputDir: "chunks",
		},
		Chat: ChatConfig{
			K:            100,
			Scope:        "East",
			MaxAttempts:  3,
			RetryDelay:   Duration{10 * time.Second},
			Timeout:      Duration{60 * time.Second},
			ExitSentinel: "exit",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults. Keys the file leaves out keep their default; unknown keys are
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r into c.
func (c *Config) Decode(r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Encode writes c to w as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every section except [ai], which the AI provider
// validates when it is created.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch c.Store.Backend {
	case BackendBadger:
		check(c.Store.Path != "", "store.path is required for the badger backend")
	case BackendQdrant:
		check(c.Store.Qdrant.Host != "", "store.qdrant.host is required for the qdrant backend")
	default:
		check(false, "store.backend must be %q or %q, got %q", BackendBadger, BackendQdrant, c.Store.Backend)
	}

	check(c.Indexes.Customer != "", "indexes.customer is required")
	check(c.Indexes.CRM != "", "indexes.crm is required")
	check(c.Indexes.Customer != c.Indexes.CRM, "indexes.customer and indexes.crm must differ")

	check(c.Ingest.MaxTokens > 0, "ingest.max_tokens must be positive")
	check(c.Ingest.Workers >= 0, "ingest.workers must not be negative")

	check(c.Chat.K > 0, "chat.k must be positive")
	check(c.Chat.MaxAttempts > 0, "chat.max_attempts must be positive")
	check(c.Chat.RetryDelay.Duration >= 0, "chat.retry_delay must not be negative")
	check(c.Chat.Timeout.Duration >= 0, "chat.timeout must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
