package schema

import "fmt"

// ConfigurationError reports a malformed family definition: a cyclic or
// cross-family foreign key, an illegal identifier, or a missing
// partition key provider. Fatal; never retried.
type ConfigurationError struct {
	Entity string // entity at fault, empty for family-level problems
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Entity == "" {
		return "invalid partition family: " + e.Reason
	}
	return fmt.Sprintf("invalid partition family: entity %s: %s", e.Entity, e.Reason)
}

// DanglingPartitionError reports that a dependent entity was
// materialized before its co-partitioned parent. The orchestrator
// orders parents first, so hitting this indicates an ordering bug.
type DanglingPartitionError struct {
	Entity string
	Target string
	Key    string
}

func (e *DanglingPartitionError) Error() string {
	return fmt.Sprintf("partition %s of %s references %s, which has no partition for that key",
		e.Key, e.Entity, e.Target)
}

// AlreadyExistsError reports that the store refused a CREATE because
// the table is already there. Benign: two ensure runs raced and the
// other one won.
type AlreadyExistsError struct {
	Table string
	Err   error
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.Table)
}

func (e *AlreadyExistsError) Unwrap() error { return e.Err }

// DDLExecutionError reports a statement the store rejected, with enough
// context for the caller to decide between retry and abort.
type DDLExecutionError struct {
	Entity    string
	Key       string
	Statement string
	Err       error
}

func (e *DDLExecutionError) Error() string {
	return fmt.Sprintf("executing DDL for %s partition %s: %v (statement: %s)",
		e.Entity, e.Key, e.Err, e.Statement)
}

func (e *DDLExecutionError) Unwrap() error { return e.Err }

// PartitionNotFoundError reports a lookup of a partition that has not
// been created. Lookups never create.
type PartitionNotFoundError struct {
	Entity string
	Key    string
}

func (e *PartitionNotFoundError) Error() string {
	return fmt.Sprintf("no partition %s for entity %s", e.Key, e.Entity)
}
