package badger

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
)

// saveDefinition persists an index definition.
func saveDefinition(tx *badger.Txn, def *core.IndexDefinition) error {
	value, err := storage.MarshalIndexDefinition(def)
	if err != nil {
		return err
	}
	return tx.Set(makeIndexDefinitionKey(def.Name), value)
}

// loadDefinition retrieves the definition of index name.
// Returns nil, nil if the index does not exist.
func loadDefinition(tx *badger.Txn, name string) (*core.IndexDefinition, error) {
	item, err := tx.Get(makeIndexDefinitionKey(name))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var def *core.IndexDefinition
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		def, unmarshalErr = storage.UnmarshalIndexDefinition(val)
		return unmarshalErr
	})
	return def, err
}

// listDefinitions returns every stored index definition.
func listDefinitions(tx *badger.Txn) ([]*core.IndexDefinition, error) {
	var defs []*core.IndexDefinition
	err := scanPrefix(tx, []byte(indexDefinitionPrefix+":"), func(val []byte) error {
		def, err := storage.UnmarshalIndexDefinition(val)
		if err != nil {
			return err
		}
		defs = append(defs, def)
		return nil
	})
	return defs, err
}
