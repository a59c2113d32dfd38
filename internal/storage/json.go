package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"
)

const jsonExt = ".json"

// JSONKV stores each key as <dataDir>/<key>.json
type JSONKV struct {
	dataDir string
}

// NewJSONKV creates the data directory if needed
func NewJSONKV(dataDir string) (*JSONKV, error) {
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, errors.Wrapf(err, "create data dir %q", dataDir)
	}
	return &JSONKV{dataDir: dataDir}, nil
}

func (s *JSONKV) path(key string) string {
	return filepath.Join(s.dataDir, filepath.Base(key)+jsonExt)
}

func (s *JSONKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "read %q", key)
	}
	return data, true, nil
}

func (s *JSONKV) Put(key string, value []byte) error {
	// write then rename so a crash never leaves a half-written document
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, secureFileMode); err != nil {
		return errors.Wrapf(err, "write %q", key)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return errors.Wrapf(err, "replace %q", key)
	}
	return nil
}

func (s *JSONKV) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

func (s *JSONKV) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "list data dir")
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), jsonExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), jsonExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONKV) Close() error {
	return nil
}
