package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseElement(t *testing.T) {
	tests := []struct {
		in      string
		want    Element
		wantErr bool
	}{
		{"wind", ElementWind, false},
		{"WOOD", ElementWood, false},
		{" physical ", ElementPhysical, false},
		{"", ElementNone, false},
		{"plasma", ElementNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseElement(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStats_YAMLDecode(t *testing.T) {
	var s Stats
	err := yaml.Unmarshal([]byte("attack: 40\nelement: fire\ncrit_rate: 0.1\n"), &s)
	require.NoError(t, err)

	assert.InDelta(t, 40, s.Attack, 1e-9)
	assert.Equal(t, ElementFire, s.Element)
	assert.InDelta(t, 0.1, s.Value(StatCritRate), 1e-9)
}

func TestStatKind_UnknownDecodesToNone(t *testing.T) {
	var v struct {
		Stat StatKind `yaml:"stat"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("stat: accuracy\n"), &v))
	assert.Equal(t, StatNone, v.Stat)
	assert.Zero(t, DefaultStats().Value(v.Stat))
}

func TestParseSect(t *testing.T) {
	s, err := ParseSect("Qingyun")
	require.NoError(t, err)
	assert.Equal(t, SectQingyun, s)

	_, err = ParseSect("beggars")
	assert.Error(t, err)
}
