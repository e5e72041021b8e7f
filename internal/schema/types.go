package schema

import "github.com/hurou927/pg-parting/internal/keys"

// FieldType is the primitive type tag of a logical field.
type FieldType string

const (
	TypeText       FieldType = "text"
	TypeInteger    FieldType = "integer"
	TypeTimestamp  FieldType = "timestamp"
	TypeReferences FieldType = "references" // foreign key to a sibling logical entity
)

// Field describes one column of a logical entity. Target is set only
// for references fields and names another logical entity in the same
// family; it has no meaning until materialized.
type Field struct {
	Name   string
	Type   FieldType
	Target string
}

// LogicalEntity is an abstract, never-instantiated schema unit. A
// partition key turns it into a PhysicalEntity via Materialize.
type LogicalEntity struct {
	Name   string
	Fields []Field

	// Provider overrides the family's key provider for this entity.
	Provider keys.Provider

	// ManagerProviders are extension hooks run once per created
	// physical partition, in order.
	ManagerProviders []ManagerProvider
}

// ForeignKey returns the entity's partition foreign key field, or nil.
// Validation guarantees at most one per entity.
func (e *LogicalEntity) ForeignKey() *Field {
	for i := range e.Fields {
		if e.Fields[i].Type == TypeReferences {
			return &e.Fields[i]
		}
	}
	return nil
}

// Column is one concrete column of a physical table. References names
// the physical table an FK column points at (empty for plain columns).
type Column struct {
	Name       string
	Type       FieldType
	References string
	RefColumn  string
}

// PhysicalEntity is the materialized result for one (entity, key)
// pair: a concrete table with a deterministic name and all foreign
// keys bound to same-key sibling tables. Never mutated once built,
// except for the one-time manager attachment after creation.
type PhysicalEntity struct {
	Entity    string
	Key       string
	TableName string
	Columns   []Column

	managers []ManagerBinding
}

// Manager is an opaque, integrator-supplied query helper bound to one
// physical partition. The engine never inspects it.
type Manager any

// ManagerBinding names one manager attached to a physical entity.
type ManagerBinding struct {
	Attribute string
	Manager   Manager
}

// ManagerProvider builds the managers to attach to a freshly created
// physical partition.
type ManagerProvider interface {
	Managers(p *PhysicalEntity) []ManagerBinding
}

// AttachManagers appends bindings to the handle. Called by the
// orchestrator after a successful create.
func (p *PhysicalEntity) AttachManagers(bindings []ManagerBinding) {
	p.managers = append(p.managers, bindings...)
}

// Manager returns the attached manager with the given attribute name.
func (p *PhysicalEntity) Manager(attribute string) (Manager, bool) {
	for _, b := range p.managers {
		if b.Attribute == attribute {
			return b.Manager, true
		}
	}
	return nil, false
}

// Managers returns the attached bindings in attachment order.
func (p *PhysicalEntity) Managers() []ManagerBinding {
	out := make([]ManagerBinding, len(p.managers))
	copy(out, p.managers)
	return out
}
