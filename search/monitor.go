package search

import (
	"log/slog"

	"github.com/poiesic/mithril/core"
)

// SearchMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type SearchMonitor interface {
	Start(query, scope string)
	AfterQueryEmbedding(vector []float32)
	AfterIndexSearch(kind core.Kind, index string, hits int)
	Finish(results []Document)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                             {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)               {}
func (n *noopMonitor) AfterIndexSearch(_ core.Kind, _ string, _ int) {}
func (n *noopMonitor) Finish(_ []Document)                           {}

// LogMonitor writes every retrieval stage to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor logging to logger, or slog.Default() when nil.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "search-monitor")}
}

func (m *LogMonitor) Start(query, scope string) {
	m.logger.Debug("retrieval started", "query", query, "scope", scope)
}

func (m *LogMonitor) AfterQueryEmbedding(vector []float32) {
	m.logger.Debug("query embedded", "dimensions", len(vector))
}

func (m *LogMonitor) AfterIndexSearch(kind core.Kind, index string, hits int) {
	m.logger.Debug("index searched", "kind", kind, "index", index, "hits", hits)
}

func (m *LogMonitor) Finish(results []Document) {
	m.logger.Debug("retrieval finished", "documents", len(results))
}
