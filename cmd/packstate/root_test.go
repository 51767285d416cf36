package packstate

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/paths"
)

const testManifest = `
schema_version: 1
packs:
  core:
    version: "1.1.0"
    pages: [Main_Page]
  lib:
    version: "1.0.0"
    depends_on: [core]
    pages: [Lib_Docs]
  app:
    version: "2.0.0"
    depends_on: [lib]
    pages: [App_Guide, Main_Page]
`

const testRegistry = `
[[refs]]
id = "main"

  [[refs.packs]]
  id = "p-core"
  name = "core"
  version = "1.0.0"

    [[refs.packs.pages]]
    name = "Main_Page"
    final_title = "Main_Page"
`

const (
	manifestPath = "/srv/manifest.yml"
	registryPath = "/srv/installed.toml"
)

type testCLI struct {
	t  *testing.T
	fs afero.Fs
}

// newTestCLI isolates config, state and data dirs and serves manifest and
// registry from an in-memory filesystem
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv("PACKSTATE_REGISTRY_PATH", registryPath)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, manifestPath, []byte(testManifest), 0644))
	require.NoError(t, afero.WriteFile(fs, registryPath, []byte(testRegistry), 0644))
	return &testCLI{t: t, fs: fs}
}

func (c *testCLI) run(args ...string) (string, string, error) {
	c.t.Helper()
	cmd := newRootCmd(&app{fs: c.fs})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--manifest", manifestPath, "--user", "alice"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type statusJSON struct {
	State struct {
		SessionID string `json:"session_id"`
		RefID     string `json:"ref_id"`
		UserID    string `json:"user_id"`
		Packs     []struct {
			Name               string  `json:"name"`
			Action             string  `json:"action"`
			AutoSelectedReason *string `json:"auto_selected_reason"`
			Pages              []struct {
				Name       string `json:"name"`
				FinalTitle string `json:"final_title"`
			} `json:"pages"`
		} `json:"packs"`
	} `json:"state"`
	Warnings []string `json:"warnings"`
	Saved    bool     `json:"saved"`
}

func (c *testCLI) status() statusJSON {
	c.t.Helper()
	out, _, err := c.run("status", "--json")
	require.NoError(c.t, err)
	var st statusJSON
	require.NoError(c.t, json.Unmarshal([]byte(out), &st))
	return st
}

func actions(st statusJSON) map[string]string {
	m := map[string]string{}
	for _, p := range st.State.Packs {
		m[p.Name] = p.Action
	}
	return m
}

func TestRoot_NoCommand(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgErrNoCommand)
}

func TestSet_PropagatesAndPersists(t *testing.T) {
	c := newTestCLI(t)

	out, stderr, err := c.run("set", "app", "install")
	require.NoError(t, err)
	assert.Contains(t, out, "core: update (Required by lib)")
	assert.Contains(t, out, "lib: install (Required by app)")
	assert.Contains(t, out, "app: install\n")
	assert.Contains(t, stderr, "Page 'Main_Page' already exists (pack: app, page: Main_Page)")

	st := c.status()
	assert.Equal(t, "main", st.State.RefID)
	assert.Equal(t, "alice", st.State.UserID)
	assert.False(t, st.Saved)
	assert.Equal(t, map[string]string{"core": "update", "lib": "install", "app": "install"}, actions(st))
	require.NotNil(t, st.State.Packs[1].AutoSelectedReason)
	assert.Equal(t, "Required by app", *st.State.Packs[1].AutoSelectedReason)
	assert.Nil(t, st.State.Packs[2].AutoSelectedReason)
}

func TestSet_JSONOutput(t *testing.T) {
	c := newTestCLI(t)

	out, _, err := c.run("set", "lib", "install", "--json")
	require.NoError(t, err)

	var res statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Saved)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, map[string]string{"core": "update", "lib": "install", "app": "unchanged"}, actions(res))
}

func TestSet_RejectedCommandIsNotSaved(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)
	before := c.status()

	_, _, err = c.run("set", "lib", "remove")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRequest))
	assert.Contains(t, err.Error(), "cannot remove 'lib' - not installed")

	_, _, err = c.run("set", "app", "reinstall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid action 'reinstall'. Must be one of: install, update, remove, unchanged")

	assert.Equal(t, before, c.status())
}

func TestSet_UnchangedRetractsAutoActions(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)

	out, _, err := c.run("set", "app", "unchanged")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoPending)
	assert.Equal(t, map[string]string{"core": "unchanged", "lib": "unchanged", "app": "unchanged"}, actions(c.status()))
}

func TestTitle_SetsFinalTitle(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)

	out, stderr, err := c.run("title", "app", "Main_Page", "App/Main_Page")
	require.NoError(t, err)
	assert.Contains(t, out, "app/Main_Page will be installed as 'App/Main_Page'")
	assert.NotContains(t, stderr, "already exists")

	st := c.status()
	appPack := st.State.Packs[2]
	require.Len(t, appPack.Pages, 2)
	assert.Equal(t, "App/Main_Page", appPack.Pages[1].FinalTitle)
}

func TestClear_DiscardsPendingActions(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)
	sessionID := c.status().State.SessionID

	out, _, err := c.run("clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared all pending actions for ref 'main'")

	st := c.status()
	assert.Equal(t, sessionID, st.State.SessionID)
	assert.Equal(t, map[string]string{"core": "unchanged", "lib": "unchanged", "app": "unchanged"}, actions(st))
}

func TestInit_RefusesPendingWithoutForce(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "lib", "install")
	require.NoError(t, err)

	_, _, err = c.run("init")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRequest))

	out, _, err := c.run("init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Started session")
	assert.Equal(t, map[string]string{"core": "unchanged", "lib": "unchanged", "app": "unchanged"}, actions(c.status()))
}

func TestStatus_Table(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)

	out, _, err := c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "ref: main, user: alice")
	assert.Contains(t, out, "install (auto)")
	assert.Contains(t, out, "Required by app")
	assert.Contains(t, out, "1.0.0 -> 1.1.0")
	assert.Contains(t, out, "3 pending action(s).")
}

func TestStatus_SeparateRefs(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run("set", "app", "install")
	require.NoError(t, err)

	out, _, err := c.run("--ref", "stable", "status", "--json")
	require.NoError(t, err)
	var st statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "stable", st.State.RefID)
	// core is only installed for main
	assert.Equal(t, map[string]string{"core": "unchanged", "lib": "unchanged", "app": "unchanged"}, actions(st))
}

func TestStatus_WarnsAboutCycles(t *testing.T) {
	c := newTestCLI(t)
	cyclic := "packs:\n  a:\n    version: '1'\n    depends_on: [b]\n  b:\n    version: '1'\n    depends_on: [a]\n"
	require.NoError(t, afero.WriteFile(c.fs, manifestPath, []byte(cyclic), 0644))

	_, stderr, err := c.run("status")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dependency cycle: a -> b -> a")
}

func TestConfig_InvalidBackend(t *testing.T) {
	c := newTestCLI(t)
	t.Setenv("PACKSTATE_STORE_BACKEND", "redis")

	_, _, err := c.run("status")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestMemoryBackend_DoesNotPersistAcrossRuns(t *testing.T) {
	c := newTestCLI(t)
	t.Setenv("PACKSTATE_STORE_BACKEND", "memory")

	_, _, err := c.run("set", "lib", "install")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", actions(c.status())["lib"])
}

func TestMiscCommands(t *testing.T) {
	c := newTestCLI(t)

	out, _, err := c.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "packstate version")

	out, _, err = c.run("gen-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[store]")
	assert.Contains(t, out, "# backend")

	out, _, err = c.run("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "packstate")

	out, _, err = c.run("man")
	require.NoError(t, err)
	assert.Contains(t, out, "PACKSTATE")

	dir := t.TempDir()
	out, _, err = c.run("man", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestSetArgsCompletion(t *testing.T) {
	c := newTestCLI(t)
	cmd := newRootCmd(&app{fs: c.fs, manifest: manifestPath, user: "alice"})
	set, _, err := cmd.Find([]string{"set"})
	require.NoError(t, err)

	a := &app{fs: c.fs, manifest: manifestPath, user: "alice"}
	names, _ := a.setArgsCompletion(set, nil, "")
	assert.Equal(t, []string{"core", "lib", "app"}, names)

	kinds, _ := a.setArgsCompletion(set, []string{"app"}, "u")
	assert.Equal(t, []string{"update", "unchanged"}, kinds)
}
