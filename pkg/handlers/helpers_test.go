package handlers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/handlers"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// def builds a manifest definition
func def(name, version string, deps []string, pages ...string) manifest.PackDef {
	return manifest.PackDef{Name: name, Version: version, DependsOn: deps, Pages: pages}
}

func deps(names ...string) []string { return names }

func build(idx *manifest.Index, installed map[string]string) *session.State {
	return session.Build("main", "alice", idx, installed, nil)
}

func hctx() handlers.Context {
	return handlers.Context{RefID: "main", UserID: "alice"}
}

func setAction(st *session.State, idx *manifest.Index, pack, action string) (*handlers.Result, error) {
	return handlers.SetPackAction{}.Handle(context.Background(), st, idx,
		map[string]interface{}{"pack_name": pack, "action": action}, hctx())
}

// mustSet applies an action and checks the result is a consistent, saveable state
func mustSet(t *testing.T, st *session.State, idx *manifest.Index, pack, action string) *handlers.Result {
	t.Helper()
	res, err := setAction(st, idx, pack, action)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Save)
	require.NoError(t, res.State.Validate())
	return res
}

func snapshot(t *testing.T, st *session.State) string {
	t.Helper()
	data, err := json.Marshal(st)
	require.NoError(t, err)
	return string(data)
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

// assertErr checks an error's code and exact message
func assertErr(t *testing.T, err error, code errors.ErrorCode, message string) {
	t.Helper()
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, code, e.Code)
	assert.Equal(t, message, e.Message)
}

// MockChecker is a mock ExistenceChecker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Exists(ctx context.Context, title string) (bool, error) {
	args := m.Called(ctx, title)
	return args.Bool(0), args.Error(1)
}
