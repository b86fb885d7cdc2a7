package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/geofduf/inline-vector/vector"
)

type intStore = vector.Store[int, [5]int]

// replay runs the YAML list of statements read from r against store, then
// writes the size, capacity and elements of every vector to w. Statements
// that fail are logged and do not stop the replay; the returned error reports
// that at least one did. Scripts with fields other than those of a statement
// are rejected before anything runs.
func replay(store *intStore, r io.Reader, w io.Writer, logger *slog.Logger) error {
	var statements []vector.Statement[int]
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&statements); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse script: %w", err)
	}
	logger.Debug("replaying script", "statements", len(statements))
	report, batchErr := store.Batch(statements)
	for _, line := range report {
		logger.Warn("statement failed", "detail", line)
	}
	for _, k := range store.Keys() {
		v, _, err := store.Get(k)
		if err != nil {
			return fmt.Errorf("copy %q: %w", k, err)
		}
		fmt.Fprintf(w, "%s: size %d capacity %d %v\n", k, v.Len(), v.Cap(), v)
		v.Clear()
	}
	return batchErr
}
