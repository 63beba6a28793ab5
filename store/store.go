// Package store reads and writes audit snapshots as flat JSON files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/kstenson/paperboy/model"
)

var (
	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
)

func snapshotValidator() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = SnapshotSchema().Resolve(nil)
	})
	return resolved, resolveErr
}

// Save writes the snapshot as indented JSON. The file is replaced
// atomically so an interrupted write never leaves a truncated snapshot.
func Save(path string, snapshot *model.AuditSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return model.NewFeedErrorWithCause(model.ErrorTypeSystem, "failed to encode snapshot", err).
			WithPath(path).
			WithOperation("save_snapshot").
			WithComponent("snapshot_store")
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data); err != nil {
		return model.NewFeedErrorWithCause(model.ErrorTypeSystem, fmt.Sprintf("failed to write snapshot: %s", path), err).
			WithPath(path).
			WithOperation("save_snapshot").
			WithComponent("snapshot_store")
	}
	return nil
}

// Load reads and validates a snapshot file.
func Load(path string) (*model.AuditSnapshot, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeSystem, fmt.Sprintf("failed to read snapshot: %s", path), err).
			WithPath(path).
			WithOperation("load_snapshot").
			WithComponent("snapshot_store")
	}

	snapshot, err := Decode(data)
	if err != nil {
		if fe, ok := err.(*model.FeedError); ok {
			fe.WithPath(path)
		}
		return nil, err
	}
	return snapshot, nil
}

// Decode parses snapshot JSON, checking it against SnapshotSchema and
// checking that the counts agree with the lists.
func Decode(data []byte) (*model.AuditSnapshot, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeParsing, "snapshot is not valid JSON", err).
			WithOperation("decode_snapshot").
			WithComponent("snapshot_store")
	}

	validator, err := snapshotValidator()
	if err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeSystem, "snapshot schema is invalid", err).
			WithOperation("decode_snapshot").
			WithComponent("snapshot_store")
	}
	if err := validator.Validate(instance); err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeSchema, "snapshot does not match the snapshot schema", err).
			WithOperation("decode_snapshot").
			WithComponent("snapshot_store")
	}

	var snapshot model.AuditSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeParsing, "failed to decode snapshot", err).
			WithOperation("decode_snapshot").
			WithComponent("snapshot_store")
	}

	if snapshot.WorkingCount != len(snapshot.Working) || snapshot.BrokenCount != len(snapshot.Broken) ||
		snapshot.TotalTested != len(snapshot.Working)+len(snapshot.Broken) {
		return nil, model.NewFeedError(model.ErrorTypeSchema,
			fmt.Sprintf("snapshot counts disagree with its lists (total %d, working %d/%d, broken %d/%d)",
				snapshot.TotalTested, snapshot.WorkingCount, len(snapshot.Working), snapshot.BrokenCount, len(snapshot.Broken))).
			WithOperation("decode_snapshot").
			WithComponent("snapshot_store")
	}

	return &snapshot, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
