package qdrant

import (
	"context"
	"errors"

	qc "github.com/qdrant/go-client/qdrant"
)

// DefaultPort is the Qdrant gRPC port.
const DefaultPort = 6334

// ErrDimensionsRequired is returned when creating a collection without a
// vector width.
var ErrDimensionsRequired = errors.New("qdrant collections need a vector dimension")

// pointsClient is the subset of *qc.Client the store uses.
type pointsClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qc.CreateCollection) error
	GetCollectionInfo(ctx context.Context, collectionName string) (*qc.CollectionInfo, error)
	CreateFieldIndex(ctx context.Context, request *qc.CreateFieldIndexCollection) (*qc.UpdateResult, error)
	Upsert(ctx context.Context, request *qc.UpsertPoints) (*qc.UpdateResult, error)
	Query(ctx context.Context, request *qc.QueryPoints) ([]*qc.ScoredPoint, error)
	Close() error
}

var _ pointsClient = (*qc.Client)(nil)

// Config holds connection settings for a Qdrant server.
type Config struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	APIKey string `toml:"api_key"`
	UseTLS bool   `toml:"use_tls"`
}

// Open connects to the Qdrant server described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	client, err := qc.NewClient(&qc.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, err
	}
	return newStore(client), nil
}
