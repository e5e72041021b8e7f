package schema

import (
	"fmt"

	"github.com/hurou927/pg-parting/internal/graph"
	"github.com/hurou927/pg-parting/internal/keys"
)

// Family is a set of logical entities sharing one partition-key scheme,
// linked by partition foreign keys. Construction validates the whole
// graph, so a Family in hand is always well-formed.
type Family struct {
	Prefix string

	provider keys.Provider
	entities []*LogicalEntity
	byName   map[string]*LogicalEntity
	order    []string // dependency order, parents first
}

// NewFamily validates the entity graph and returns a Family. provider
// is the family-wide key provider; entities may override it
// individually and it may be nil when only explicit keys are used.
// Returns *ConfigurationError on duplicate or illegal names, foreign
// keys leaving the family, multiple foreign keys on one entity, or a
// foreign-key cycle.
func NewFamily(prefix string, provider keys.Provider, entities ...*LogicalEntity) (*Family, error) {
	if prefix != "" {
		if err := ValidateIdentifier(prefix); err != nil {
			return nil, err
		}
	}
	if len(entities) == 0 {
		return nil, &ConfigurationError{Reason: "family has no entities"}
	}

	f := &Family{
		Prefix:   prefix,
		provider: provider,
		entities: entities,
		byName:   make(map[string]*LogicalEntity, len(entities)),
	}

	for _, e := range entities {
		if err := ValidateIdentifier(e.Name); err != nil {
			return nil, err
		}
		if _, dup := f.byName[e.Name]; dup {
			return nil, &ConfigurationError{Entity: e.Name, Reason: "duplicate entity name"}
		}
		f.byName[e.Name] = e
	}

	names := make([]string, 0, len(entities))
	parents := make(map[string][]string, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)

		fkSeen := false
		for _, fld := range e.Fields {
			if fld.Name == "" {
				return nil, &ConfigurationError{Entity: e.Name, Reason: "field with empty name"}
			}
			if fld.Type != TypeReferences {
				continue
			}
			if fkSeen {
				return nil, &ConfigurationError{Entity: e.Name, Reason: "more than one partition foreign key"}
			}
			fkSeen = true
			if _, ok := f.byName[fld.Target]; !ok {
				return nil, &ConfigurationError{
					Entity: e.Name,
					Reason: fmt.Sprintf("foreign key %s targets %s, which is not in the family", fld.Name, fld.Target),
				}
			}
			parents[e.Name] = append(parents[e.Name], fld.Target)
		}
	}

	topo := graph.TopoSort(names, parents)
	if topo.HasCycle {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("foreign-key cycle among entities %v", topo.CycleNodes),
		}
	}
	f.order = topo.Order

	return f, nil
}

// Entity looks up a member by name.
func (f *Family) Entity(name string) (*LogicalEntity, bool) {
	e, ok := f.byName[name]
	return e, ok
}

// Entities returns the members in definition order.
func (f *Family) Entities() []*LogicalEntity {
	out := make([]*LogicalEntity, len(f.entities))
	copy(out, f.entities)
	return out
}

// DependencyOrder returns the members with every entity before the
// entities that reference it.
func (f *Family) DependencyOrder() []*LogicalEntity {
	out := make([]*LogicalEntity, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.byName[name])
	}
	return out
}

// ProviderFor returns the key provider in effect for an entity: its
// own when set, else the family's. Nil when neither is configured.
func (f *Family) ProviderFor(e *LogicalEntity) keys.Provider {
	if e.Provider != nil {
		return e.Provider
	}
	return f.provider
}

// PhysicalName resolves the table name for an entity at a key. The key
// is validated; the entity name was validated at construction.
func (f *Family) PhysicalName(entity, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return PhysicalName(f.Prefix, entity, key), nil
}
