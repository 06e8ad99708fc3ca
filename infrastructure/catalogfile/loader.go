// Package catalogfile loads node catalog overlays from YAML files and
// reloads them when the file changes.
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"pipeline-builder/domain/catalog"
)

// Decode parses an overlay document. Unknown keys are rejected so a typo does
// not silently leave a type unchanged.
func Decode(r io.Reader) (catalog.Overlay, error) {
	var o catalog.Overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return catalog.Overlay{}, fmt.Errorf("invalid catalog overlay: %w", err)
	}
	return o, nil
}

// Load reads the overlay at path and applies it on top of base
func Load(path string, base *catalog.Catalog) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	o, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base.Apply(o)
}
