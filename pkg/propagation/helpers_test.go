package propagation_test

import (
	"testing"

	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pack builds a manifest definition at version 1.0
func pack(name string, deps ...string) manifest.PackDef {
	return manifest.PackDef{Name: name, Version: "1.0", DependsOn: deps}
}

// build creates a session where installed maps pack name to current version
func build(idx *manifest.Index, installed map[string]string) *session.State {
	return session.Build("main", "tester", idx, installed, nil)
}

func assertAction(t *testing.T, st *session.State, name string, kind session.ActionKind, reason string) {
	t.Helper()
	p, ok := st.Pack(name)
	require.True(t, ok, "pack %s missing", name)
	assert.Equal(t, kind, p.Action.Kind(), "action of %s", name)
	if reason == "" {
		assert.Nil(t, p.AutoSelectedReason(), "reason of %s", name)
		return
	}
	require.NotNil(t, p.AutoSelectedReason(), "reason of %s", name)
	assert.Equal(t, reason, *p.AutoSelectedReason(), "reason of %s", name)
}
