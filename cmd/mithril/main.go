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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mithril",
		Usage: "Retrieval-augmented question answering over customer and CRM tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				EnvVars: []string{"MITHRIL_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "create-index",
				Usage:  "Create the customer and CRM indexes if they do not exist",
				Action: createIndexCommand,
				Flags:  commonFlags(),
			},
			{
				Name:   "ingest",
				Usage:  "Turn table files into embedded chunks",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringSliceFlag{
						Name:  "customers",
						Usage: "Directory of customer tables",
					},
					&cli.StringSliceFlag{
						Name:  "crm",
						Usage: "Directory of CRM/order tables",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Directory chunk files are written to (default from config)",
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Also publish every chunk to its index",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of rows embedded concurrently",
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Token budget of a single row",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print row progress to stderr",
						Value: true,
					},
				),
			},
			{
				Name:   "publish",
				Usage:  "Publish chunk files to their indexes",
				Action: publishCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "chunks",
						Usage: "Directory of chunk files (default from config)",
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Upload attempts per document",
						Value: 3,
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Ask questions interactively",
				Action: chatCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Only use documents whose scope field equals this value (empty for all)",
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "Nearest neighbors requested from each index",
					},
				),
			},
			{
				Name:   "check",
				Usage:  "Probe the embedding service and tokenizer",
				Action: checkCommand,
				Flags:  aiFlags(),
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration",
				Action: configCommand,
				Flags:  commonFlags(),
			},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-type",
			Usage: "Model endpoint dialect (openai, azure)",
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "Base URL of the embedding and chat endpoints",
			EnvVars: []string{"AZURE_OPENAI_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key of the model endpoints",
			EnvVars: []string{"AZURE_OPENAI_API_KEY", "OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "api-version",
			Usage: "Azure OpenAI API version",
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model or deployment name",
			EnvVars: []string{"AZURE_OPENAI_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model or deployment name",
			EnvVars: []string{"AZURE_OPENAI_CHAT_COMPLETIONS_DEPLOYMENT_NAME"},
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding width",
		},
	}
}

func commonFlags() []cli.Flag {
	return append(aiFlags(),
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Index store backend (badger, qdrant)",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:    "qdrant-host",
			Usage:   "Qdrant host",
			EnvVars: []string{"QDRANT_HOST"},
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.BoolFlag{
			Name:  "qdrant-tls",
			Usage: "Connect to Qdrant over TLS",
		},
		&cli.StringFlag{
			Name:    "customer-index",
			Usage:   "Name of the customer index",
			EnvVars: []string{"SEARCH_CUSTOMER_INDEX_NAME"},
		},
		&cli.StringFlag{
			Name:    "crm-index",
			Usage:   "Name of the CRM index",
			EnvVars: []string{"SEARCH_CRM_INDEX_NAME"},
		},
	)
}

// loadConfig reads the configuration file and applies every flag that was
// set on the command line or through its environment variables.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setInt := func(flag string, dst *int) {
		if c.IsSet(flag) {
			*dst = c.Int(flag)
		}
	}

	if c.IsSet("api-type") {
		cfg.AI.APIType = ai.APIType(c.String("api-type"))
	}
	if c.IsSet("endpoint") {
		cfg.AI.EmbeddingHost = c.String("endpoint")
		cfg.AI.ChatHost = c.String("endpoint")
	}
	setString("api-key", &cfg.AI.APIKey)
	setString("api-version", &cfg.AI.APIVersion)
	setString("embedding-model", &cfg.AI.EmbeddingModel)
	setString("chat-model", &cfg.AI.ChatModel)
	setInt("dimensions", &cfg.AI.Dimensions)

	setString("backend", &cfg.Store.Backend)
	setString("db", &cfg.Store.Path)
	setString("qdrant-host", &cfg.Store.Qdrant.Host)
	setInt("qdrant-port", &cfg.Store.Qdrant.Port)
	setString("qdrant-api-key", &cfg.Store.Qdrant.APIKey)
	if c.IsSet("qdrant-tls") {
		cfg.Store.Qdrant.UseTLS = c.Bool("qdrant-tls")
	}

	setString("customer-index", &cfg.Indexes.Customer)
	setString("crm-index", &cfg.Indexes.CRM)

	setString("out", &cfg.Ingest.OutputDir)
	setString("chunks", &cfg.Ingest.OutputDir)
	setInt("workers", &cfg.Ingest.Workers)
	setInt("max-tokens", &cfg.Ingest.MaxTokens)

	setString("scope", &cfg.Chat.Scope)
	setInt("k", &cfg.Chat.K)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
