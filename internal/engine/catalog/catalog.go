package catalog

import (
	"bytes"
	"encoding/json"
	"io"

	"winfeatures/internal/core/errors"
)

// Catalog mirrors the windows-rs features.json layout. Namespace and
// feature references are indexes into NamespaceMap and FeatureMap.
type Catalog struct {
	NamespaceMap []string           `json:"namespace_map"`
	FeatureMap   []string           `json:"feature_map"`
	Namespaces   map[string][]Entry `json:"namespaces"`
}

// Entry is one item declared in a namespace.
type Entry struct {
	Name     string `json:"name"`
	Features []int  `json:"features,omitempty"`
}

// Decode reads a catalog from its JSON form.
func Decode(r io.Reader) (*Catalog, error) {
	var cat Catalog
	if err := json.NewDecoder(r).Decode(&cat); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode features catalog")
	}
	if len(cat.NamespaceMap) == 0 && len(cat.Namespaces) == 0 {
		return nil, errors.New(errors.CodeValidationError, "features catalog has no namespaces")
	}
	return &cat, nil
}

// DecodeBytes is Decode over an in-memory body.
func DecodeBytes(data []byte) (*Catalog, error) {
	return Decode(bytes.NewReader(data))
}
