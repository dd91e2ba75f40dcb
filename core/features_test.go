package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureSchema(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		wantErr string
	}{
		{"valid", []string{"Age", "Sex_M"}, ""},
		{"empty list", nil, "no columns"},
		{"empty name", []string{"Age", ""}, "column 1 is empty"},
		{"duplicate", []string{"Age", "Age"}, "duplicate column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := NewFeatureSchema(tt.columns)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.columns), fs.Len())
		})
	}
}

func TestFeatureSchema_Immutable(t *testing.T) {
	columns := []string{"Age", "Sex_M"}
	fs := mustSchema(t, columns)
	columns[0] = "Changed"

	got := fs.Columns()
	assert.Equal(t, []string{"Age", "Sex_M"}, got)
	got[1] = "Mutated"
	assert.Equal(t, []string{"Age", "Sex_M"}, fs.Columns())

	i, ok := fs.Index("Sex_M")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = fs.Index("Changed")
	assert.False(t, ok)
}

func TestFeatureSchema_Fingerprint(t *testing.T) {
	a := mustSchema(t, []string{"Age", "Sex_M"})
	b := mustSchema(t, []string{"Age", "Sex_M"})
	c := mustSchema(t, []string{"Sex_M", "Age"})
	d := mustSchema(t, []string{"AgeSex_M"})

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}
