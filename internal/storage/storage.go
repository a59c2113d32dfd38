package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"github.com/vedsharma/apicli/internal/model"
)

// Fixed keys of the persisted documents
const (
	KeyCollections = "apicli.collections"
	KeyHistory     = "apicli.history"
	KeyAliases     = "apicli.aliases"
)

// Backend names accepted by Open
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Storage persists collections, history and aliases as JSON documents in a KV
type Storage struct {
	kv  KV
	now func() time.Time
}

// New wraps an existing KV
func New(kv KV) *Storage {
	return &Storage{kv: kv, now: time.Now}
}

// Open creates the KV backend named by backend inside dataDir
func Open(dataDir, backend string) (*Storage, error) {
	switch strings.ToLower(backend) {
	case "", BackendSQLite:
		kv, err := NewSQLiteKV(dataDir)
		if err != nil {
			return nil, err
		}
		return New(kv), nil
	case BackendJSON:
		kv, err := NewJSONKV(dataDir)
		if err != nil {
			return nil, err
		}
		return New(kv), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", backend)
	}
}

// Close releases the underlying KV
func (s *Storage) Close() error {
	return s.kv.Close()
}

func (s *Storage) load(key string, v any) error {
	data, ok, err := s.kv.Get(key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %q", key)
	}
	return nil
}

func (s *Storage) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	return s.kv.Put(key, data)
}

// =============================================================================
// History Operations
// =============================================================================

// LoadHistory returns the stored history, newest first
func (s *Storage) LoadHistory() ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if err := s.load(KeyHistory, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Request = entries[i].Request.Normalize()
	}
	return entries, nil
}

// SaveHistory replaces the stored history
func (s *Storage) SaveHistory(entries []model.HistoryEntry) error {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return s.save(KeyHistory, entries)
}

// ClearHistory clears all history
func (s *Storage) ClearHistory() error {
	return s.SaveHistory(nil)
}

// =============================================================================
// Collection Operations
// =============================================================================

// LoadCollections loads every collection
func (s *Storage) LoadCollections() ([]model.Collection, error) {
	var cols []model.Collection
	if err := s.load(KeyCollections, &cols); err != nil {
		return nil, err
	}
	for i := range cols {
		for j := range cols[i].Requests {
			cols[i].Requests[j].Request = cols[i].Requests[j].Request.Normalize()
		}
	}
	return cols, nil
}

// SaveCollections replaces all collections
func (s *Storage) SaveCollections(cols []model.Collection) error {
	if cols == nil {
		cols = []model.Collection{}
	}
	return s.save(KeyCollections, cols)
}

func findCollection(cols []model.Collection, ref string) int {
	for i, c := range cols {
		if c.ID == ref || c.Name == ref {
			return i
		}
	}
	return -1
}

// CreateCollection creates a collection; an existing one with the same name
// is returned unchanged
func (s *Storage) CreateCollection(name string) (*model.Collection, error) {
	cols, err := s.LoadCollections()
	if err != nil {
		return nil, err
	}
	if i := findCollection(cols, name); i >= 0 {
		return &cols[i], nil
	}

	now := s.now()
	col := model.Collection{
		ID:        uuid.NewString(),
		Name:      name,
		Requests:  []model.SavedRequest{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	cols = append(cols, col)
	if err := s.SaveCollections(cols); err != nil {
		return nil, err
	}
	return &col, nil
}

// GetCollection gets a collection by name or id, nil when it does not exist
func (s *Storage) GetCollection(ref string) (*model.Collection, error) {
	cols, err := s.LoadCollections()
	if err != nil {
		return nil, err
	}
	if i := findCollection(cols, ref); i >= 0 {
		return &cols[i], nil
	}
	return nil, nil
}

// DeleteCollection deletes a collection by name or id
func (s *Storage) DeleteCollection(ref string) error {
	cols, err := s.LoadCollections()
	if err != nil {
		return err
	}
	i := findCollection(cols, ref)
	if i < 0 {
		return errors.Errorf("collection %q not found", ref)
	}
	return s.SaveCollections(append(cols[:i], cols[i+1:]...))
}

// SaveRequest appends a named snapshot of d to a collection, creating the
// collection when it does not exist yet
func (s *Storage) SaveRequest(collection, name string, d model.RequestDescriptor) (*model.SavedRequest, error) {
	if _, err := s.CreateCollection(collection); err != nil {
		return nil, err
	}
	cols, err := s.LoadCollections()
	if err != nil {
		return nil, err
	}
	col := &cols[findCollection(cols, collection)]

	nextOrder := 0
	for _, r := range col.Requests {
		if r.SortOrder >= nextOrder {
			nextOrder = r.SortOrder + 1
		}
	}

	now := s.now()
	req := model.SavedRequest{
		ID:           uuid.NewString(),
		CollectionID: col.ID,
		Name:         name,
		Request:      d.Clone(),
		SortOrder:    nextOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	col.Requests = append(col.Requests, req)
	col.UpdatedAt = now

	if err := s.SaveCollections(cols); err != nil {
		return nil, err
	}
	return &req, nil
}

// DeleteRequest removes a saved request by id or name from a collection
func (s *Storage) DeleteRequest(collection, ref string) error {
	cols, err := s.LoadCollections()
	if err != nil {
		return err
	}
	ci := findCollection(cols, collection)
	if ci < 0 {
		return errors.Errorf("collection %q not found", collection)
	}

	col := &cols[ci]
	for i, r := range col.Requests {
		if r.ID == ref || r.Name == ref {
			col.Requests = append(col.Requests[:i], col.Requests[i+1:]...)
			col.UpdatedAt = s.now()
			return s.SaveCollections(cols)
		}
	}
	return errors.Errorf("request %q not found in collection %q", ref, collection)
}

// =============================================================================
// Alias Operations
// =============================================================================

// LoadAliases loads all aliases
func (s *Storage) LoadAliases() (model.Aliases, error) {
	aliases := model.Aliases{}
	if err := s.load(KeyAliases, &aliases); err != nil {
		return nil, err
	}
	return aliases, nil
}

// CreateAlias creates or replaces an alias
func (s *Storage) CreateAlias(name, url string) error {
	aliases, err := s.LoadAliases()
	if err != nil {
		return err
	}
	aliases[name] = url
	return s.save(KeyAliases, aliases)
}

// DeleteAlias deletes an alias
func (s *Storage) DeleteAlias(name string) error {
	aliases, err := s.LoadAliases()
	if err != nil {
		return err
	}
	delete(aliases, name)
	return s.save(KeyAliases, aliases)
}

// GetAlias gets an alias URL by name
func (s *Storage) GetAlias(name string) (string, bool, error) {
	aliases, err := s.LoadAliases()
	if err != nil {
		return "", false, err
	}
	url, ok := aliases[name]
	return url, ok, nil
}
