package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/cryptox"
)

// FileRepository is the fallback adapter used when sqlite cannot be
// opened (read-only or sandboxed filesystems). The whole store is one
// JSON document; every value is sealed with the device key before it
// touches disk. Writes go through a temp file and rename.
type FileRepository struct {
	path string
	key  []byte

	mu sync.Mutex
}

// NewFileRepository builds a file-backed store at path, sealing values
// with the device key behind keyPath (created on first use).
func NewFileRepository(path, keyPath string) (*FileRepository, error) {
	key, err := cryptox.LoadOrCreateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading device key: %w", err)
	}
	return &FileRepository{path: path, key: key}, nil
}

func (r *FileRepository) load() (map[string][]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}

	doc := map[string][]byte{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	return doc, nil
}

func (r *FileRepository) save(doc map[string][]byte) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	// Random temp name so a writer from another process cannot clobber
	// an in-flight write before its rename.
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp." + suffix
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing secrets file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	sealed, ok := doc[key]
	if !ok {
		return nil, nil
	}

	value, err := cryptox.Open(r.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("unsealing secrets[%s]: %w", key, err)
	}
	return value, nil
}

func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.SetMany(ctx, map[string][]byte{key: value})
}

func (r *FileRepository) SetMany(ctx context.Context, pairs map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	for key, value := range pairs {
		sealed, err := cryptox.Seal(r.key, value)
		if err != nil {
			return fmt.Errorf("sealing secrets[%s]: %w", key, err)
		}
		doc[key] = sealed
	}
	return r.save(doc)
}

func (r *FileRepository) Delete(ctx context.Context, key string) error {
	return r.DeleteMany(ctx, []string{key})
}

func (r *FileRepository) DeleteMany(ctx context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(doc, key)
	}
	return r.save(doc)
}

func (r *FileRepository) Close() error { return nil }
