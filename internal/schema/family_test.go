package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/pg-parting/internal/keys"
)

func tweetStarFamily(t *testing.T) *Family {
	t.Helper()
	f, err := NewFamily("", keys.Static{Current: "2013_04", Next: "2013_05"},
		&LogicalEntity{
			Name: "tweet",
			Fields: []Field{
				{Name: "json", Type: TypeText},
				{Name: "user", Type: TypeText},
				{Name: "created", Type: TypeTimestamp},
			},
		},
		&LogicalEntity{
			Name: "star",
			Fields: []Field{
				{Name: "tweet", Type: TypeReferences, Target: "tweet"},
				{Name: "user", Type: TypeText},
			},
		},
	)
	require.NoError(t, err)
	return f
}

func TestNewFamilyValid(t *testing.T) {
	f := tweetStarFamily(t)

	tweet, ok := f.Entity("tweet")
	require.True(t, ok)
	assert.Nil(t, tweet.ForeignKey())

	star, ok := f.Entity("star")
	require.True(t, ok)
	require.NotNil(t, star.ForeignKey())
	assert.Equal(t, "tweet", star.ForeignKey().Target)
}

func TestNewFamilyRejectsCycle(t *testing.T) {
	_, err := NewFamily("", nil,
		&LogicalEntity{Name: "a", Fields: []Field{{Name: "b", Type: TypeReferences, Target: "b"}}},
		&LogicalEntity{Name: "b", Fields: []Field{{Name: "c", Type: TypeReferences, Target: "c"}}},
		&LogicalEntity{Name: "c", Fields: []Field{{Name: "a", Type: TypeReferences, Target: "a"}}},
	)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "cycle")
}

func TestNewFamilyRejectsSelfReference(t *testing.T) {
	_, err := NewFamily("", nil,
		&LogicalEntity{Name: "a", Fields: []Field{{Name: "parent", Type: TypeReferences, Target: "a"}}},
	)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewFamilyRejectsForeignTarget(t *testing.T) {
	_, err := NewFamily("", nil,
		&LogicalEntity{Name: "star", Fields: []Field{{Name: "tweet", Type: TypeReferences, Target: "tweet"}}},
	)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "star", cfgErr.Entity)
}

func TestNewFamilyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		entities []*LogicalEntity
	}{
		{name: "no entities", entities: nil},
		{
			name: "duplicate names",
			entities: []*LogicalEntity{
				{Name: "tweet"},
				{Name: "tweet"},
			},
		},
		{
			name: "illegal entity name",
			entities: []*LogicalEntity{
				{Name: "tw-eet"},
			},
		},
		{
			name: "two foreign keys",
			entities: []*LogicalEntity{
				{Name: "tweet"},
				{Name: "star", Fields: []Field{
					{Name: "a", Type: TypeReferences, Target: "tweet"},
					{Name: "b", Type: TypeReferences, Target: "tweet"},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFamily("", nil, tt.entities...)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestDependencyOrderParentsFirst(t *testing.T) {
	// Linear chain declared dependents-first: c -> b -> a.
	f, err := NewFamily("", nil,
		&LogicalEntity{Name: "c", Fields: []Field{{Name: "b", Type: TypeReferences, Target: "b"}}},
		&LogicalEntity{Name: "b", Fields: []Field{{Name: "a", Type: TypeReferences, Target: "a"}}},
		&LogicalEntity{Name: "a", Fields: []Field{{Name: "v", Type: TypeText}}},
	)
	require.NoError(t, err)

	order := f.DependencyOrder()
	pos := make(map[string]int, len(order))
	for i, e := range order {
		pos[e.Name] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
}

func TestProviderFor(t *testing.T) {
	familyProv := keys.Static{Current: "fam"}
	entityProv := keys.Static{Current: "ent"}

	override := &LogicalEntity{Name: "a", Provider: entityProv}
	plain := &LogicalEntity{Name: "b"}
	f, err := NewFamily("", familyProv, override, plain)
	require.NoError(t, err)

	assert.Equal(t, "ent", f.ProviderFor(override).CurrentKey())
	assert.Equal(t, "fam", f.ProviderFor(plain).CurrentKey())
}

func TestFamilyPhysicalNameValidatesKey(t *testing.T) {
	f := tweetStarFamily(t)

	name, err := f.PhysicalName("tweet", "2013_04")
	require.NoError(t, err)
	assert.Equal(t, "tweet_2013_04", name)

	_, err = f.PhysicalName("tweet", "2013-04")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
