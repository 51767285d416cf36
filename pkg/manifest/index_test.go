package manifest_test

import (
	"testing"

	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/stretchr/testify/assert"
)

func TestIndex_Dependencies(t *testing.T) {
	idx := manifest.NewIndex(
		manifest.PackDef{Name: "app", Version: "1", DependsOn: []string{"lib", "ghost"}},
		manifest.PackDef{Name: "lib", Version: "1", DependsOn: []string{"base"}},
		manifest.PackDef{Name: "base", Version: "1"},
		manifest.PackDef{Name: "tool", Version: "1", DependsOn: []string{"base"}},
	)

	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{"lib"}, idx.DependsOn("app"), "undefined dependencies are ignored")
	assert.Nil(t, idx.DependsOn("missing"))
	assert.True(t, idx.DeclaresDependency("app", "ghost"))
	assert.Equal(t, []string{"lib", "tool"}, idx.Dependents("base"))
	assert.Empty(t, idx.Dependents("app"))
	assert.Empty(t, idx.Cycles())
}

func TestIndex_DuplicateKeepsFirstPosition(t *testing.T) {
	idx := manifest.NewIndex(
		manifest.PackDef{Name: "a", Version: "1"},
		manifest.PackDef{Name: "b", Version: "1"},
		manifest.PackDef{Name: "a", Version: "2"},
	)

	assert.Equal(t, []string{"a", "b"}, idx.Names())
	a, _ := idx.Get("a")
	assert.Equal(t, "2", a.Version)
}

func TestIndex_Cycles(t *testing.T) {
	idx := manifest.NewIndex(
		manifest.PackDef{Name: "a", DependsOn: []string{"b"}},
		manifest.PackDef{Name: "b", DependsOn: []string{"c"}},
		manifest.PackDef{Name: "c", DependsOn: []string{"a"}},
		manifest.PackDef{Name: "self", DependsOn: []string{"self"}},
	)

	assert.Equal(t, [][]string{
		{"a", "b", "c", "a"},
		{"self", "self"},
	}, idx.Cycles())
}

func TestIndex_NilIsEmpty(t *testing.T) {
	var idx *manifest.Index
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Has("a"))
	assert.Nil(t, idx.Names())
	assert.Nil(t, idx.Packs())
}
