package ddl

import (
	"fmt"
	"strings"

	"github.com/hurou927/pg-parting/internal/schema"
)

// Kind classifies a generated statement.
type Kind string

const (
	KindCreateTable Kind = "create table"
	KindCreateIndex Kind = "create index"
)

// Statement is one generated DDL statement, tagged with the physical
// table it targets so failures can be reported with context.
type Statement struct {
	SQL   string
	Kind  Kind
	Table string
}

// Options control generation output.
type Options struct {
	// IfNotExists guards every statement, for use as a standalone
	// preview that is safe to run without an existence check.
	IfNotExists bool
}

// Generate emits the complete, ordered statement set for one physical
// partition: the CREATE TABLE (foreign keys inline as column-level
// REFERENCES clauses), then one CREATE INDEX per foreign-key column.
// Generation never checks existence; callers decide whether to run it.
func Generate(d Dialect, p *schema.PhysicalEntity, opts Options) []Statement {
	guard := ""
	if opts.IfNotExists {
		guard = "IF NOT EXISTS "
	}

	cols := make([]string, 0, len(p.Columns)+1)
	cols = append(cols, d.PrimaryKeyColumn())
	for _, c := range p.Columns {
		def := d.QuoteIdent(c.Name) + " " + d.TypeName(c.Type)
		if c.References != "" {
			def += fmt.Sprintf(" REFERENCES %s (%s)",
				d.QuoteIdent(c.References), d.QuoteIdent(c.RefColumn))
		}
		cols = append(cols, def)
	}

	stmts := []Statement{{
		SQL: fmt.Sprintf("CREATE TABLE %s%s (%s)",
			guard, d.QuoteIdent(p.TableName), strings.Join(cols, ", ")),
		Kind:  KindCreateTable,
		Table: p.TableName,
	}}

	for _, c := range p.Columns {
		if c.References == "" {
			continue
		}
		stmts = append(stmts, Statement{
			SQL: fmt.Sprintf("CREATE INDEX %s%s ON %s (%s)",
				guard,
				d.QuoteIdent(d.IndexName(p.TableName, c.Name)),
				d.QuoteIdent(p.TableName),
				d.QuoteIdent(c.Name)),
			Kind:  KindCreateIndex,
			Table: p.TableName,
		})
	}

	return stmts
}
