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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poiesic/mithril"
	"github.com/poiesic/mithril/chat"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/ingestion"
	"github.com/poiesic/mithril/publish"
	"github.com/poiesic/mithril/retry"
	"github.com/poiesic/mithril/storage/badger"
	"github.com/urfave/cli/v2"
)

const probeText = "health check"

func openSystem(c *cli.Context) (*mithril.System, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return mithril.Open(cfg)
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func createIndexCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	if err := sys.EnsureIndexes(c.Context); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	for _, kind := range core.Kinds {
		fmt.Fprintf(c.App.Writer, "Index %s ready for %s records\n", sys.Config().Indexes.Name(kind), kind)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	dirs := append(c.StringSlice("customers"), c.StringSlice("crm")...)
	if len(dirs) == 0 {
		return errors.New("at least one of --customers or --crm is required")
	}

	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx, cancel := signalContext(c)
	defer cancel()

	sinks := ingestion.MultiSink{ingestion.NewArtifactWriter(sys.Config().Ingest.OutputDir)}
	if c.Bool("publish") {
		publishers, err := sys.NewPublishers(ctx)
		if err != nil {
			return err
		}
		sinks = append(sinks, publishers)
	}

	var opts []ingestion.Option
	if c.Bool("progress") {
		opts = append(opts, ingestion.WithProgress(c.App.ErrWriter))
	}
	pipeline, err := sys.NewIngestionPipeline(ctx, sinks, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	start := time.Now()
	report, err := pipeline.IngestDirs(ctx, dirs...)
	if report != nil {
		printReport(c, report)
	}
	if err != nil {
		return err
	}

	slog.Info("ingestion complete", "elapsed", time.Since(start).Round(time.Millisecond), "delivered", report.Delivered)
	return nil
}

func printReport(c *cli.Context, report *ingestion.Report) {
	w := c.App.Writer
	fmt.Fprintf(w, "Files:     %d\n", report.Files)
	fmt.Fprintf(w, "Rows:      %d (%d skipped, %d degraded)\n", report.Rows, report.Skipped, report.Degraded)
	fmt.Fprintf(w, "Built:     %d\n", report.Built)
	fmt.Fprintf(w, "Delivered: %d\n", report.Delivered)

	for _, ref := range report.OverBudget {
		fmt.Fprintf(w, "  over budget: %s row %d (%d tokens)\n", ref.Source, ref.Row, ref.Tokens)
	}
	for _, f := range report.FileFailures {
		fmt.Fprintf(w, "  file failed: %v\n", &f)
	}
	for _, f := range report.EmbeddingFailures {
		fmt.Fprintf(w, "  embedding failed: %v\n", &f)
	}
	for _, f := range report.SinkFailures {
		fmt.Fprintf(w, "  delivery failed: %v\n", &f)
	}
}

func publishCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx, cancel := signalContext(c)
	defer cancel()

	dir := sys.Config().Ingest.OutputDir
	chunks, failures, err := ingestion.ReadArtifacts(dir)
	if err != nil {
		return err
	}
	for _, f := range failures {
		fmt.Fprintf(c.App.Writer, "  unreadable: %v\n", &f)
	}

	indexes, err := sys.Indexes(ctx)
	if err != nil {
		return err
	}

	byKind := make(map[core.Kind][]*core.ChunkRecord)
	for _, chunk := range chunks {
		byKind[chunk.Kind] = append(byKind[chunk.Kind], chunk)
	}

	policy := retry.Policy{
		MaxAttempts: c.Int("max-attempts"),
		Backoff:     retry.Exponential(time.Second),
	}

	succeeded, failed := 0, len(failures)
	for kind, batch := range byKind {
		index, ok := indexes[kind]
		if !ok {
			fmt.Fprintf(c.App.Writer, "  no index for %d %s chunks\n", len(batch), kind)
			failed += len(batch)
			continue
		}
		publisher, err := publish.NewPublisher(index, publish.WithRetry(policy))
		if err != nil {
			return err
		}

		result := publisher.Publish(ctx, batch)
		succeeded += result.Succeeded
		failed += len(result.Failures)
		for _, f := range result.Failures {
			fmt.Fprintf(c.App.Writer, "  publish failed: %v\n", &f)
		}
	}

	fmt.Fprintf(c.App.Writer, "Published %d chunks from %s, %d failed\n", succeeded, dir, failed)
	return ctx.Err()
}

func chatCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx, cancel := signalContext(c)
	defer cancel()

	answerer, err := sys.NewAnswerer(ctx)
	if err != nil {
		return err
	}

	session, err := chat.NewSession(answerer, os.Stdin, c.App.Writer,
		chat.WithExitSentinel(sys.Config().Chat.ExitSentinel))
	if err != nil {
		return err
	}

	scope := answerer.Scope()
	if scope == "" {
		scope = "all"
	}
	fmt.Fprintf(c.App.Writer, "Scope: %s. Type %q to quit.\n", scope, sys.Config().Chat.ExitSentinel)

	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func checkCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// The check never touches the configured index store.
	store, err := badger.NewMemoryStore()
	if err != nil {
		return err
	}
	sys, err := mithril.Open(cfg, mithril.WithStore(store))
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx := c.Context
	if cfg.Chat.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Chat.Timeout.Duration)
		defer cancel()
	}

	vector, err := sys.Provider().Embedder().EmbedText(ctx, probeText)
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Embedding model %s returned %d dimensions\n", cfg.AI.EmbeddingModel, len(vector))
	fmt.Fprintf(c.App.Writer, "Tokenizer counted %d tokens in %q\n", sys.Tokenizer().CountTokens(probeText), probeText)

	if cfg.AI.Dimensions > 0 && len(vector) != cfg.AI.Dimensions {
		return fmt.Errorf("%w: configured %d, model returned %d", core.ErrDimensionMismatch, cfg.AI.Dimensions, len(vector))
	}
	return nil
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return cfg.Encode(c.App.Writer)
}
