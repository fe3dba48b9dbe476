package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/label"
)

func TestParse(t *testing.T) {
	l, err := label.Parse("//tools/compiler:frontend")
	require.NoError(t, err)

	assert.Equal(t, label.PackageID("tools/compiler"), l.PackageID())
	assert.Equal(t, "frontend", l.Name())
	assert.Equal(t, "//tools/compiler:frontend", l.String())
}

func TestParseRootPackage(t *testing.T) {
	l, err := label.Parse("//:all")
	require.NoError(t, err)

	assert.Equal(t, label.PackageID(""), l.PackageID())
	assert.Equal(t, "all", l.Name())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing prefix", "tools:frontend"},
		{"missing separator", "//tools/frontend"},
		{"empty name", "//tools:"},
		{"name with slash", "//tools:sub/frontend"},
		{"second colon", "//tools:a:b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := label.Parse(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestLabelsAreComparable(t *testing.T) {
	a := label.MustParse("//lib:core")
	b := label.MustParse("//lib:core")
	c := label.MustParse("//lib:other")

	assert.True(t, a == b)
	assert.False(t, a == c)

	seen := map[label.Label]int{a: 1}
	assert.Equal(t, 1, seen[b])
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { label.MustParse("not-a-label") })
}

func TestIsZero(t *testing.T) {
	assert.True(t, label.Label{}.IsZero())
	assert.False(t, label.MustParse("//a:b").IsZero())
}
