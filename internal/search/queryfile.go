// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// QueryFile is the on-disk representation of a saved search: the target
// record type plus the request to run against it. Saved searches can be
// rerun without retyping the filter conditions.
type QueryFile struct {
	// Target is the record type to search: documents, elements, notes,
	// or logs. The search command's positional argument overrides it.
	Target string `yaml:"target,omitempty"`

	types.SearchRequest `yaml:",inline"`
}

// WriteQueryFile saves a search request to a YAML file.
func WriteQueryFile(path, target string, req types.SearchRequest) error {
	qf := QueryFile{Target: target, SearchRequest: req}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}

	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
