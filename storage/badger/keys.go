package badger

import "fmt"

const (
	indexDefinitionPrefix = "idxdef"
	indexDocumentPrefix   = "idxdoc"
)

// makeIndexDefinitionKey generates the key holding an index definition.
// Format: idxdef:name
func makeIndexDefinitionKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", indexDefinitionPrefix, name))
}

// makeIndexDocumentKey generates the key of one document in an index.
// Format: idxdoc:name:id
func makeIndexDocumentKey(name, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", indexDocumentPrefix, name, id))
}

// makeIndexDocumentPrefix generates the prefix shared by every document of
// an index. The trailing separator keeps "orders" from matching "orders2".
func makeIndexDocumentPrefix(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", indexDocumentPrefix, name))
}
