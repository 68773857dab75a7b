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


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/table"
)

// DefaultExtension is the suffix of the table files a pipeline reads.
const DefaultExtension = ".md"

// Pipeline turns directories of pipe-delimited tables into chunk records.
// Rows are embedded concurrently on a worker pool; each row fails or
// succeeds on its own.
type Pipeline struct {
	schemas    SchemaSource
	sink       Sink
	pool       *ants.Pool
	builder    *Builder
	guard      *BudgetGuard
	parser     *table.Parser
	maxTokens  int
	dimensions int
	extension  string
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMaxTokens sets the token budget of a chunk.
// Default is DefaultMaxTokens.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Pipeline) error {
		if maxTokens < 1 {
			return ErrInvalidMaxTokens
		}
		p.maxTokens = maxTokens
		return nil
	}
}

// WithDimensions rejects embeddings whose width differs from dims.
// Default is 0, which accepts any width.
func WithDimensions(dims int) Option {
	return func(p *Pipeline) error {
		p.dimensions = dims
		return nil
	}
}

// WithExtension sets the file suffix of table files, matched case-insensitively.
// Default is DefaultExtension.
func WithExtension(ext string) Option {
	return func(p *Pipeline) error {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extension = ext
		return nil
	}
}

// WithProgress prints row progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline delivering chunks to sink.
func NewPipeline(
	schemas SchemaSource,
	embedder ai.Embedder,
	tokenizer ai.Tokenizer,
	sink Sink,
	opts ...Option,
) (*Pipeline, error) {
	if schemas == nil {
		return nil, ErrSchemaSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		schemas:   schemas,
		sink:      sink,
		pool:      pool,
		maxTokens: DefaultMaxTokens,
		extension: DefaultExtension,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Created after options are applied so they get the final config.
	p.logger = p.logger.With("component", "ingestion")
	p.parser = table.NewParser(p.logger)

	p.guard, err = NewBudgetGuard(tokenizer, p.maxTokens)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.builder, err = NewBuilder(embedder, p.dimensions)
	if err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

type rowJob struct {
	source string
	row    int
	line   int
	kind   core.Kind
	fields core.FieldMap
}

// IngestDirs processes every table file directly inside each directory.
// A file's kind is decided by its name. Row, chunk and file failures are
// collected in the report; an error is returned only when a directory
// cannot be listed or a schema cannot be fetched.
func (p *Pipeline) IngestDirs(ctx context.Context, dirs ...string) (*Report, error) {
	files, err := p.listFiles(dirs)
	if err != nil {
		return nil, err
	}

	report := &Report{Files: len(files)}
	schemas := make(map[core.Kind]core.Schema)
	var jobs []rowJob

	for _, path := range files {
		kind := core.KindFromFilename(path)
		schema, ok := schemas[kind]
		if !ok {
			schema, err = p.schemas.SchemaFor(ctx, kind)
			if err != nil {
				return nil, fmt.Errorf("schema for %s: %w", kind, err)
			}
			schemas[kind] = schema
		}

		result, err := p.parser.ParseFile(path, schema)
		if err != nil {
			p.logger.Error("failed to read table", "file", path, "err", err)
			report.FileFailures = append(report.FileFailures, ChunkFailure{Source: path, Err: err})
			continue
		}

		p.logger.Info("parsed table", "file", path, "kind", kind,
			"rows", len(result.Rows), "skipped", result.Skipped, "degraded", result.Degraded)

		report.Rows += len(result.Rows)
		report.Skipped += result.Skipped
		report.Degraded += result.Degraded

		for i, fields := range result.Rows {
			jobs = append(jobs, rowJob{
				source: path,
				row:    i + 1,
				line:   result.Lines[i],
				kind:   kind,
				fields: fields,
			})
		}
	}

	tracker := NewProgressTracker(p.progress, len(jobs), progressInterval(len(jobs)))
	tracker.Start()

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			tracker.Row(p.processRow(ctx, job, report))
		})
		if submitErr != nil {
			wg.Done()
			report.addEmbeddingFailure(ChunkFailure{Source: job.source, Row: job.row, Err: submitErr})
			tracker.Row(false)
		}
	}
	wg.Wait()

	if p.progress != nil {
		tracker.Finish()
	}
	report.sort()

	p.logger.Info("ingestion finished", "report", report.String(), "elapsed", tracker.Elapsed())

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// processRow runs one row through the budget gate, the builder and the
// sink. It reports whether the chunk was delivered.
func (p *Pipeline) processRow(ctx context.Context, job rowJob, report *Report) bool {
	content, err := job.fields.Canonical()
	if err != nil {
		report.addEmbeddingFailure(ChunkFailure{Source: job.source, Row: job.row, Err: err})
		return false
	}

	tokens, ok := p.guard.Check(content)
	if !ok {
		p.logger.Warn("row exceeds token budget",
			"file", job.source, "row", job.row, "tokens", tokens, "max", p.guard.MaxTokens())
		report.addOverBudget(ChunkRef{Source: job.source, Row: job.row, Tokens: tokens})
		return false
	}

	chunk, err := p.builder.build(ctx, job.fields, job.kind, content)
	if err != nil {
		p.logger.Error("failed to embed row", "file", job.source, "row", job.row, "line", job.line, "err", err)
		report.addEmbeddingFailure(ChunkFailure{Source: job.source, Row: job.row, Err: err})
		return false
	}
	chunk.Source = job.source
	chunk.Row = job.row

	if err := p.sink.Deliver(ctx, chunk); err != nil {
		p.logger.Error("failed to deliver chunk", "file", job.source, "row", job.row, "id", chunk.ID, "err", err)
		report.addBuilt(false, &ChunkFailure{Source: job.source, Row: job.row, Err: err})
		return false
	}

	report.addBuilt(true, nil)
	return true
}

// listFiles returns the table files of each directory in name order.
func (p *Pipeline) listFiles(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if p.extension != "" && !strings.EqualFold(filepath.Ext(entry.Name()), p.extension) {
				continue
			}
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func progressInterval(total int) int {
	if total < 20 {
		return 1
	}
	return total / 20
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
