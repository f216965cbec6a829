package featurestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"facegate.io/entities"
	"github.com/google/renameio"
)

// FilePersister keeps the whole store as one JSON object mapping label to
// descriptor. Every save rewrites the file through a temp file and rename, so
// readers never see a partial snapshot.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Load returns no records when the file does not exist yet.
func (p *FilePersister) Load(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feature snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return decodeSnapshot(data)
}

func (p *FilePersister) Save(ctx context.Context, snapshot []Record, changed Record) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	return p.write(data)
}

func (p *FilePersister) Clear(ctx context.Context) error {
	return p.write([]byte("{}"))
}

func (p *FilePersister) Close(ctx context.Context) error {
	return nil
}

func (p *FilePersister) write(data []byte) error {
	if dir := filepath.Dir(p.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return renameio.WriteFile(p.Path, data, 0o644)
}

// encodeSnapshot writes records as a JSON object whose key order is the
// record order.
func encodeSnapshot(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to encode features for %q: %w", r.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeSnapshot walks the top-level object token by token so the file's key
// order is preserved.
func decodeSnapshot(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidSnapshot)
	}

	var records []Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		label, _ := tok.(string)
		var features entities.FaceFeatures
		if err := dec.Decode(&features); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", ErrInvalidSnapshot, label, err)
		}
		records = append(records, Record{Label: label, Features: features})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidSnapshot)
	}
	return records, nil
}
