package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"

	"github.com/wricardo/mcp-training/tacticsgame/game/service"
)

const (
	gdataSessionsObject = "sessions"
	gdataIndexObject    = "sessions_index"
	gdataIndexProp      = "ids"
)

// GdataPersistence implements SessionPersistence on top of gdata application
// storage. Each session is one property of the "sessions" object; a separate
// index property lists the known ids. Deleted sessions are overwritten with
// an empty payload.
type GdataPersistence struct {
	store *gdata.Manager
	codec sessionCodec
	mu    sync.Mutex
}

// NewGdataPersistence opens (or creates) the gdata store for appName
func NewGdataPersistence(appName string, configManager service.ConfigManager) (*GdataPersistence, error) {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata store: %w", err)
	}
	return NewGdataPersistenceWithManager(store, configManager), nil
}

// NewGdataPersistenceWithManager wraps an already opened gdata manager
func NewGdataPersistenceWithManager(store *gdata.Manager, configManager service.ConfigManager) *GdataPersistence {
	return &GdataPersistence{
		store: store,
		codec: sessionCodec{configManager: configManager},
	}
}

// Save persists a session as a gdata property
func (gp *GdataPersistence) Save(session *service.Session) error {
	data, err := gp.codec.encode(session)
	if err != nil {
		return err
	}

	gp.mu.Lock()
	defer gp.mu.Unlock()

	k := key(session.ID)
	if err := gp.store.SaveObjectProp(gdataSessionsObject, k, data); err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}

	ids, err := gp.readIndex()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == k {
			return nil
		}
	}
	return gp.writeIndex(append(ids, k))
}

// Load retrieves a session from gdata storage
func (gp *GdataPersistence) Load(id string) (*service.Session, error) {
	gp.mu.Lock()
	data, err := gp.loadRaw(id)
	gp.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return gp.codec.decode(data)
}

// Delete tombstones a session and drops it from the index
func (gp *GdataPersistence) Delete(id string) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	if _, err := gp.loadRaw(id); err != nil {
		return err
	}
	if err := gp.store.SaveObjectProp(gdataSessionsObject, key(id), []byte{}); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	ids, err := gp.readIndex()
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, existing := range ids {
		if existing != key(id) {
			kept = append(kept, existing)
		}
	}
	return gp.writeIndex(kept)
}

// ListAll returns all persisted session IDs
func (gp *GdataPersistence) ListAll() ([]string, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	ids, err := gp.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists checks if a live session is stored under id
func (gp *GdataPersistence) Exists(id string) bool {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	_, err := gp.loadRaw(id)
	return err == nil
}

// loadRaw returns the stored payload, treating tombstones as missing. Props
// are keyed by the lower-cased id, like the manager's map.
func (gp *GdataPersistence) loadRaw(id string) ([]byte, error) {
	k := key(id)
	if k == "" || !gp.store.ObjectPropExists(gdataSessionsObject, k) {
		return nil, ErrSessionNotFound
	}
	data, err := gp.store.LoadObjectProp(gdataSessionsObject, k)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}
	return data, nil
}

func (gp *GdataPersistence) readIndex() ([]string, error) {
	if !gp.store.ObjectPropExists(gdataIndexObject, gdataIndexProp) {
		return []string{}, nil
	}
	data, err := gp.store.LoadObjectProp(gdataIndexObject, gdataIndexProp)
	if err != nil {
		return nil, fmt.Errorf("failed to read session index: %w", err)
	}
	var ids []string
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, fmt.Errorf("failed to parse session index: %w", err)
		}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (gp *GdataPersistence) writeIndex(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal session index: %w", err)
	}
	if err := gp.store.SaveObjectProp(gdataIndexObject, gdataIndexProp, data); err != nil {
		return fmt.Errorf("failed to write session index: %w", err)
	}
	return nil
}
