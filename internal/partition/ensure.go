// Package partition implements the ensure-partition orchestrator: the
// idempotent "create if missing" operation over a whole family.
package partition

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hurou927/pg-parting/internal/ddl"
	"github.com/hurou927/pg-parting/internal/registry"
	"github.com/hurou927/pg-parting/internal/schema"
)

// Symbolic keys resolved through the entity's key provider.
const (
	KeyCurrent = "current"
	KeyNext    = "next"
)

// ExecStore executes one partition's statement batch atomically.
type ExecStore interface {
	ExecDDL(ctx context.Context, stmts []ddl.Statement) error
}

// Ensurer walks a family in dependency order and brings one partition
// into existence. Re-invocation with the same arguments is safe: the
// registry's existence check plus deterministic naming means the second
// run executes nothing and succeeds.
type Ensurer struct {
	family  *schema.Family
	dialect ddl.Dialect
	store   ExecStore
	reg     *registry.Registry

	// Options are applied to every generated statement batch. The
	// IfNotExists guard is useful for dry-run previews meant to be run
	// by hand later, without the orchestrator's existence checks.
	Options ddl.Options
}

// NewEnsurer wires an orchestrator for one family.
func NewEnsurer(family *schema.Family, dialect ddl.Dialect, store ExecStore, reg *registry.Registry) *Ensurer {
	return &Ensurer{family: family, dialect: dialect, store: store, reg: reg}
}

// EnsurePartition ensures every member of the family has its physical
// table for the given key, creating missing ones in dependency order
// (parents before dependents). key may be KeyCurrent or KeyNext, which
// resolve through the entity's provider.
//
// The returned statements are those executed, or, when dryRun is set,
// those that would have been; a dry run never mutates the store or
// records anything in the registry. On failure, tables created for
// earlier entities stay in place and the error carries the failing
// entity, key, and statement.
func (e *Ensurer) EnsurePartition(ctx context.Context, entityName, key string, dryRun bool) ([]ddl.Statement, error) {
	ent, ok := e.family.Entity(entityName)
	if !ok {
		return nil, &schema.ConfigurationError{Entity: entityName, Reason: "not a member of this family"}
	}

	key, err := e.resolveKey(ent, key)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateKey(key); err != nil {
		return nil, err
	}

	var out []ddl.Statement
	// Tables known to be in place for this key, including ones a dry
	// run would have created, so dependent previews materialize.
	inPlace := make(map[string]bool)

	for _, le := range e.family.DependencyOrder() {
		exists, err := e.reg.Exists(ctx, le.Name, key)
		if err != nil {
			return out, fmt.Errorf("checking partition %s of %s: %w", key, le.Name, err)
		}
		if exists {
			inPlace[le.Name] = true
			continue
		}

		phys, err := schema.Materialize(e.family, le, key, func(sibling string) bool {
			if inPlace[sibling] {
				return true
			}
			ok, serr := e.reg.Exists(ctx, sibling, key)
			return serr == nil && ok
		})
		if err != nil {
			return out, err
		}

		stmts := ddl.Generate(e.dialect, phys, e.Options)

		if dryRun {
			out = append(out, stmts...)
			inPlace[le.Name] = true
			continue
		}

		if err := e.store.ExecDDL(ctx, stmts); err != nil {
			var already *schema.AlreadyExistsError
			if errors.As(err, &already) {
				// Lost a create race; the table is there, which is all
				// ensure promises. Re-sync and move on.
				log.Printf("partition %s of %s created concurrently, continuing", key, le.Name)
				if _, rerr := e.reg.Refresh(ctx, le.Name, key); rerr != nil {
					return out, fmt.Errorf("re-syncing partition %s of %s: %w", key, le.Name, rerr)
				}
				inPlace[le.Name] = true
				continue
			}
			var ddlErr *schema.DDLExecutionError
			if errors.As(err, &ddlErr) {
				ddlErr.Entity = le.Name
				ddlErr.Key = key
				return out, ddlErr
			}
			return out, &schema.DDLExecutionError{Entity: le.Name, Key: key, Err: err}
		}

		e.reg.RecordCreated(le.Name, key, phys)
		for _, mp := range le.ManagerProviders {
			phys.AttachManagers(mp.Managers(phys))
		}
		inPlace[le.Name] = true
		out = append(out, stmts...)
	}

	return out, nil
}

// EnsureCurrentAndNext runs EnsurePartition for the entity's current
// and next keys, the default when no explicit key is given.
func (e *Ensurer) EnsureCurrentAndNext(ctx context.Context, entityName string, dryRun bool) ([]ddl.Statement, error) {
	var out []ddl.Statement
	for _, key := range []string{KeyCurrent, KeyNext} {
		stmts, err := e.EnsurePartition(ctx, entityName, key, dryRun)
		out = append(out, stmts...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (e *Ensurer) resolveKey(ent *schema.LogicalEntity, key string) (string, error) {
	switch key {
	case KeyCurrent, KeyNext:
		p := e.family.ProviderFor(ent)
		if p == nil {
			return "", &schema.ConfigurationError{
				Entity: ent.Name,
				Reason: "no partition key provider configured, cannot resolve " + key,
			}
		}
		if key == KeyCurrent {
			return p.CurrentKey(), nil
		}
		return p.NextKey(), nil
	}
	return key, nil
}
