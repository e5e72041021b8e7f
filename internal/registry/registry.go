// Package registry tracks which partitions of a family have been
// materialized. It is process-wide state: one Registry per family,
// created on first use and kept for the life of the process. Entries
// are never evicted; the set is bounded by the number of partitions
// ever created.
package registry

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hurou927/pg-parting/internal/schema"
)

// Store is the minimal metadata surface the registry needs from the
// underlying database.
type Store interface {
	TableExists(ctx context.Context, table string) (bool, error)
}

type entry struct {
	exists bool
	handle *schema.PhysicalEntity
}

// Registry caches partition existence and physical handles per entity.
// Reads and writes are safe for concurrent use; introspection queries
// for the same table are collapsed via singleflight.
type Registry struct {
	family *schema.Family
	store  Store

	mu      sync.RWMutex
	entries map[string]map[string]*entry // entity name -> key -> entry
	sf      singleflight.Group
}

// New creates a registry for one family backed by the given store.
func New(family *schema.Family, store Store) *Registry {
	return &Registry{
		family:  family,
		store:   store,
		entries: make(map[string]map[string]*entry),
	}
}

// Exists reports whether the partition's physical table is in place.
// The first answer for a given (entity, key) comes from store
// introspection and is cached either way.
func (r *Registry) Exists(ctx context.Context, entityName, key string) (bool, error) {
	r.mu.RLock()
	e, ok := r.entries[entityName][key]
	r.mu.RUnlock()
	if ok {
		return e.exists, nil
	}
	return r.Refresh(ctx, entityName, key)
}

// Refresh re-queries the store and overwrites the cached existence
// flag. Used after a concurrent-create race to reconcile.
func (r *Registry) Refresh(ctx context.Context, entityName, key string) (bool, error) {
	table, err := r.family.PhysicalName(entityName, key)
	if err != nil {
		return false, err
	}

	v, err, _ := r.sf.Do(table, func() (any, error) {
		return r.store.TableExists(ctx, table)
	})
	if err != nil {
		return false, err
	}
	exists := v.(bool)

	r.mu.Lock()
	r.setLocked(entityName, key, exists, nil)
	r.mu.Unlock()
	return exists, nil
}

// Get returns the physical handle for an existing partition. The
// handle is materialized lazily when the table was discovered by
// introspection rather than created in this process. Never creates;
// returns *PartitionNotFoundError when the partition does not exist.
func (r *Registry) Get(ctx context.Context, entityName, key string) (*schema.PhysicalEntity, error) {
	exists, err := r.Exists(ctx, entityName, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &schema.PartitionNotFoundError{Entity: entityName, Key: key}
	}

	r.mu.RLock()
	e := r.entries[entityName][key]
	var handle *schema.PhysicalEntity
	if e != nil {
		handle = e.handle
	}
	r.mu.RUnlock()
	if handle != nil {
		return handle, nil
	}

	le, ok := r.family.Entity(entityName)
	if !ok {
		return nil, &schema.ConfigurationError{Entity: entityName, Reason: "not a member of this family"}
	}
	handle, err = schema.Materialize(r.family, le, key, func(sibling string) bool {
		ok, serr := r.Exists(ctx, sibling, key)
		return serr == nil && ok
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Keep the first handle if another goroutine won the race.
	if cur := r.entries[entityName][key]; cur != nil && cur.handle != nil {
		handle = cur.handle
	} else {
		r.setLocked(entityName, key, true, handle)
	}
	r.mu.Unlock()
	return handle, nil
}

// RecordCreated marks a partition as existing after a successful DDL
// run and caches its handle. Recording an already-recorded partition
// is a no-op, so the first handle stays authoritative.
func (r *Registry) RecordCreated(entityName, key string, handle *schema.PhysicalEntity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.entries[entityName][key]; cur != nil && cur.exists && cur.handle != nil {
		return
	}
	r.setLocked(entityName, key, true, handle)
}

// Keys returns the cached partition keys recorded for an entity, in no
// particular order. Purely a view of the in-process cache.
func (r *Registry) Keys(entityName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k, e := range r.entries[entityName] {
		if e.exists {
			out = append(out, k)
		}
	}
	return out
}

func (r *Registry) setLocked(entityName, key string, exists bool, handle *schema.PhysicalEntity) {
	m, ok := r.entries[entityName]
	if !ok {
		m = make(map[string]*entry)
		r.entries[entityName] = m
	}
	cur := m[key]
	if cur == nil {
		m[key] = &entry{exists: exists, handle: handle}
		return
	}
	cur.exists = exists
	if handle != nil {
		cur.handle = handle
	}
}
