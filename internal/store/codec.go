package store

import (
	"bytes"
	"errors"
	"fmt"
	"statekeeper/internal/migration"
	"statekeeper/internal/models"
	"statekeeper/internal/storage"
	"statekeeper/internal/structures"

	json "github.com/goccy/go-json"
)

// Codec turns PersistedState into stored blobs and back. Blobs are JSON,
// zstd-compressed when compression is on; plain and compressed blobs are
// both readable regardless of the setting.
type Codec struct {
	compressor storage.Compressor
	compress   bool
}

func NewCodec(compressor storage.Compressor, compress bool) *Codec {
	return &Codec{compressor: compressor, compress: compress && compressor != nil}
}

func NewCodecProvider(conf *structures.Config, compressor storage.Compressor) *Codec {
	return NewCodec(compressor, conf.Storage.Compress)
}

func (c *Codec) Encode(state *models.PersistedState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	if !c.compress {
		return data, nil
	}
	return c.compressor.Compress(data)
}

// DecodeDocument reads a blob into an untyped document so that its version
// can be inspected and migrated before binding.
func (c *Codec) DecodeDocument(blob []byte) (migration.Document, error) {
	data := blob
	if storage.IsCompressed(blob) {
		if c.compressor == nil {
			return nil, errors.New("blob is compressed but no decompressor is configured")
		}
		var err error
		data, err = c.compressor.Decompress(blob)
		if err != nil {
			return nil, err
		}
	}

	var doc migration.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode save document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("decode save document: not an object")
	}
	return doc, nil
}

// Bind converts a document at the current schema into PersistedState.
func (c *Codec) Bind(doc migration.Document) (*models.PersistedState, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var state models.PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
