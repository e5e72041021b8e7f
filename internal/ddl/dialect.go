package ddl

import (
	"strings"

	"github.com/hurou927/pg-parting/internal/schema"
)

// Dialect adapts statement generation to one SQL backend. The
// generation algorithm itself is dialect-independent; only type names,
// quoting, and naming conventions vary.
type Dialect interface {
	// TypeName maps a logical field type to the backend's column type.
	TypeName(t schema.FieldType) string
	// QuoteIdent renders an identifier, quoting when required.
	QuoteIdent(name string) string
	// PrimaryKeyColumn is the full definition of the identity column.
	PrimaryKeyColumn() string
	// IndexName is the backend's conventional name for the
	// auto-generated index on a foreign-key column.
	IndexName(table, column string) string
	// SupportsTransactionalDDL reports whether a statement batch can be
	// wrapped in a transaction and rolled back.
	SupportsTransactionalDDL() bool
}

// Postgres is the reference dialect.
type Postgres struct{}

func (Postgres) TypeName(t schema.FieldType) string {
	switch t {
	case schema.TypeText:
		return "text"
	case schema.TypeInteger:
		return "bigint"
	case schema.TypeTimestamp:
		return "timestamp with time zone"
	case schema.TypeReferences:
		return "bigint"
	}
	return "text"
}

// reservedIdents are common PostgreSQL reserved words that show up as
// column names ("user" above all) and must be quoted.
var reservedIdents = map[string]bool{
	"all": true, "and": true, "any": true, "asc": true, "check": true,
	"default": true, "desc": true, "end": true, "from": true,
	"group": true, "index": true, "limit": true, "not": true,
	"order": true, "primary": true, "references": true, "select": true,
	"table": true, "user": true, "where": true,
}

func (Postgres) QuoteIdent(name string) string {
	if reservedIdents[strings.ToLower(name)] {
		return `"` + name + `"`
	}
	return name
}

func (Postgres) PrimaryKeyColumn() string {
	return "id bigserial PRIMARY KEY"
}

func (Postgres) IndexName(table, column string) string {
	return table + "_" + column + "_idx"
}

func (Postgres) SupportsTransactionalDDL() bool { return true }
