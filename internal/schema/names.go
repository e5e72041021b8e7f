package schema

import "strings"

// Partition keys and identifiers are restricted to characters that are
// legal in an unquoted SQL identifier. The engine rejects anything
// else; it never sanitizes.

// ValidateKey checks a partition key token. Keys may start with a
// digit ("2013_04") because they are only ever suffixed onto an entity
// name.
func ValidateKey(key string) error {
	if key == "" {
		return &ConfigurationError{Reason: "partition key is empty"}
	}
	for _, r := range key {
		if !isIdentRune(r) {
			return &ConfigurationError{Reason: "partition key " + key + " contains characters illegal in an identifier"}
		}
	}
	return nil
}

// ValidateIdentifier checks an entity or prefix name, which must be
// usable as the leading part of a table name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &ConfigurationError{Reason: "identifier is empty"}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return &ConfigurationError{Reason: "identifier " + name + " starts with a digit"}
	}
	for _, r := range name {
		if !isIdentRune(r) {
			return &ConfigurationError{Reason: "identifier " + name + " contains characters illegal in an identifier"}
		}
	}
	return nil
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}

// PhysicalName maps (prefix, entity, key) to the partition's table
// name. Pure and deterministic: the same pair always yields the same
// name, and distinct (entity, key) pairs yield distinct names for any
// family whose entity names do not embed each other across an
// underscore.
func PhysicalName(prefix, entity, key string) string {
	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, entity, key)
	return strings.Join(parts, "_")
}
