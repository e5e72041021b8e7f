package schema

// Materialize produces the concrete schema for one (entity, key) pair.
// Plain fields are copied verbatim; the partition foreign key (if any)
// is rewritten to reference the target entity's physical table at the
// SAME key, so a partition never points outside its own shard.
//
// siblingExists reports whether an entity's partition at this key is
// already in place; Materialize returns *DanglingPartitionError when
// the foreign-key target is missing. The function itself is pure; it
// never creates anything.
func Materialize(f *Family, e *LogicalEntity, key string, siblingExists func(entity string) bool) (*PhysicalEntity, error) {
	tableName, err := f.PhysicalName(e.Name, key)
	if err != nil {
		return nil, err
	}

	p := &PhysicalEntity{
		Entity:    e.Name,
		Key:       key,
		TableName: tableName,
		Columns:   make([]Column, 0, len(e.Fields)),
	}

	for _, fld := range e.Fields {
		if fld.Type != TypeReferences {
			p.Columns = append(p.Columns, Column{Name: fld.Name, Type: fld.Type})
			continue
		}

		if siblingExists == nil || !siblingExists(fld.Target) {
			return nil, &DanglingPartitionError{Entity: e.Name, Target: fld.Target, Key: key}
		}
		target := PhysicalName(f.Prefix, fld.Target, key)
		p.Columns = append(p.Columns, Column{
			Name:       fld.Name + "_id",
			Type:       TypeReferences,
			References: target,
			RefColumn:  "id",
		})
	}

	return p, nil
}
