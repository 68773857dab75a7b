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


package badger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
)

// Store implements storage.IndexAdmin on a BadgerDB backend. Every index
// lives in the same database under its own key prefix.
type Store struct {
	backend     *Backend
	ownsBackend bool
	logger      *slog.Logger
}

var _ storage.IndexAdmin = (*Store)(nil)

// NewStore creates a store on an already opened backend. Closing the store
// leaves the backend open.
func NewStore(backend *Backend) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-store"),
	}, nil
}

// Open opens (or creates) a store at path. The store owns the database and
// closes it on Close.
func Open(path string) (*Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	store.ownsBackend = true
	return store, nil
}

// EnsureIndex creates the index described by def unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, def *core.IndexDefinition) error {
	if err := core.ValidateIndexDefinition(def); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := loadDefinition(tx, def.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			s.logger.Debug("index already exists", "index", def.Name)
			return nil
		}
		if err := saveDefinition(tx, def); err != nil {
			return err
		}
		s.logger.Info("created index", "index", def.Name, "fields", len(def.Fields), "dimensions", def.Dimensions)
		return tx.Commit()
	}, true)
}

// Index opens the named index.
func (s *Store) Index(ctx context.Context, name string) (storage.IndexRepository, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var def *core.IndexDefinition
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		def, err = loadDefinition(tx, name)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrIndexNotFound, name)
	}

	return newIndex(s.backend, def), nil
}

// Indexes lists the definitions of every index in the store.
func (s *Store) Indexes(ctx context.Context) ([]*core.IndexDefinition, error) {
	var defs []*core.IndexDefinition
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		defs, err = listDefinitions(tx)
		return err
	}, false)
	return defs, err
}

// Close closes the underlying database if the store opened it.
func (s *Store) Close() error {
	if !s.ownsBackend || s.backend.IsClosed() {
		return nil
	}
	return s.backend.Close()
}
