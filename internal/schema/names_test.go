package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicalNameDeterminism(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		entity string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", entity: "tweet", key: "2013_04", want: "tweet_2013_04"},
		{name: "with prefix", prefix: "app", entity: "tweet", key: "2013_04", want: "app_tweet_2013_04"},
		{name: "opaque key", prefix: "", entity: "widget", key: "baz", want: "widget_baz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := PhysicalName(tt.prefix, tt.entity, tt.key)
			assert.Equal(t, tt.want, first)
			// Repeated calls always agree.
			assert.Equal(t, first, PhysicalName(tt.prefix, tt.entity, tt.key))
		})
	}
}

func TestPhysicalNameNoCollisions(t *testing.T) {
	entities := []string{"tweet", "star", "retweet"}
	partKeys := []string{"2013_04", "2013_05", "baz", "a1"}

	seen := make(map[string]string)
	for _, e := range entities {
		for _, k := range partKeys {
			name := PhysicalName("", e, k)
			prev, dup := seen[name]
			require.False(t, dup, "collision: %s and (%s, %s) both map to %s", prev, e, k, name)
			seen[name] = e + "/" + k
		}
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "2013_04", wantErr: false},
		{key: "baz", wantErr: false},
		{key: "A1_b2", wantErr: false},
		{key: "", wantErr: true},
		{key: "2013-04", wantErr: true},
		{key: "2013 04", wantErr: true},
		{key: `x"; DROP TABLE tweet; --`, wantErr: true},
		{key: "ключ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	require.NoError(t, ValidateIdentifier("tweet"))
	require.NoError(t, ValidateIdentifier("my_table2"))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, ValidateIdentifier(""), &cfgErr)
	require.ErrorAs(t, ValidateIdentifier("2tweet"), &cfgErr)
	require.ErrorAs(t, ValidateIdentifier("twe-et"), &cfgErr)
}
