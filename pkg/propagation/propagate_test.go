package propagation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/propagation"
	"github.com/arthur-debert/packstate/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredAction(t *testing.T) {
	old, same := "0.9", "1.0"
	assert.Equal(t, session.ActionInstall, propagation.RequiredAction(&session.PackState{TargetVersion: "1.0"}))
	assert.Equal(t, session.ActionUpdate, propagation.RequiredAction(&session.PackState{CurrentVersion: &old, TargetVersion: "1.0"}))
	assert.Equal(t, session.ActionUnchanged, propagation.RequiredAction(&session.PackState{CurrentVersion: &same, TargetVersion: "1.0"}))
}

func TestPropagateDown(t *testing.T) {
	t.Run("direct dependency is auto installed", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B"))
		st := build(idx, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "B", session.ActionInstall, "Required by A")
	})

	t.Run("transitive dependencies name their direct dependent", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B", "C"), pack("C"))
		st := build(idx, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "B", session.ActionInstall, "Required by A")
		assertAction(t, st, "C", session.ActionInstall, "Required by B")
	})

	t.Run("cycle terminates", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B", "C"), pack("C", "A"))
		st := build(idx, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "A", session.ActionInstall, "")
		assertAction(t, st, "B", session.ActionInstall, "Required by A")
		assertAction(t, st, "C", session.ActionInstall, "Required by B")
	})

	t.Run("cycle below the root terminates", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B", "C"), pack("C", "B"))
		st := build(idx, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "B", session.ActionInstall, "Required by A")
		assertAction(t, st, "C", session.ActionInstall, "Required by B")
	})

	t.Run("outdated dependency is auto updated, current one untouched", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "old", "current"), pack("old"), pack("current"))
		st := build(idx, map[string]string{"old": "0.9", "current": "1.0"})
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "old", session.ActionUpdate, "Required by A")
		assertAction(t, st, "current", session.ActionUnchanged, "")
	})

	t.Run("manual action on dependency is never overridden", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B", "C"), pack("C"))
		st := build(idx, map[string]string{"B": "0.9"})
		st.SetAction("B", session.Manual(session.ActionRemove))
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "B", session.ActionRemove, "")
		assertAction(t, st, "C", session.ActionUnchanged, "")
	})

	t.Run("auto action on dependency is replaced", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "C"), pack("B", "C"), pack("C"))
		st := build(idx, nil)
		st.SetAction("C", session.Auto(session.ActionInstall, "Required by A"))
		st.SetAction("B", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "B", session.ActionInstall)

		assertAction(t, st, "C", session.ActionInstall, "Required by B")
	})

	t.Run("undefined dependencies are ignored", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "ghost", "B"), pack("B"))
		st := build(idx, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assertAction(t, st, "B", session.ActionInstall, "Required by A")
		_, ok := st.Pack("ghost")
		assert.False(t, ok)
	})

	t.Run("dependency missing from state is skipped", func(t *testing.T) {
		idx := manifest.NewIndex(pack("A", "B"), pack("B"))
		st := session.Build("main", "tester", manifest.NewIndex(pack("A", "B")), nil, nil)
		st.SetAction("A", session.Manual(session.ActionInstall))

		propagation.PropagateDown(st, idx, "A", session.ActionInstall)

		assert.Equal(t, []string{"A"}, st.PacksWithActions())
	})
}

func TestPropagateRemovalUp(t *testing.T) {
	t.Run("installed dependent is auto removed", func(t *testing.T) {
		idx := manifest.NewIndex(pack("X", "Y"), pack("Y"))
		st := build(idx, map[string]string{"X": "1.0", "Y": "1.0"})
		st.SetAction("Y", session.Manual(session.ActionRemove))

		propagation.PropagateRemovalUp(st, idx, "Y")

		assertAction(t, st, "X", session.ActionRemove, "Depends on Y which is being removed")
		x, _ := st.Pack("X")
		assert.False(t, x.Selected)
	})

	t.Run("cascades transitively", func(t *testing.T) {
		idx := manifest.NewIndex(pack("top", "mid"), pack("mid", "base"), pack("base"))
		st := build(idx, map[string]string{"top": "1.0", "mid": "1.0", "base": "1.0"})
		st.SetAction("base", session.Manual(session.ActionRemove))

		propagation.PropagateRemovalUp(st, idx, "base")

		assertAction(t, st, "mid", session.ActionRemove, "Depends on base which is being removed")
		assertAction(t, st, "top", session.ActionRemove, "Depends on mid which is being removed")
	})

	t.Run("uninstalled and manual dependents are untouched", func(t *testing.T) {
		idx := manifest.NewIndex(pack("fresh", "Y"), pack("pinned", "Y"), pack("Y"))
		st := build(idx, map[string]string{"pinned": "0.9", "Y": "1.0"})
		st.SetAction("pinned", session.Manual(session.ActionUpdate))
		st.SetAction("Y", session.Manual(session.ActionRemove))

		propagation.PropagateRemovalUp(st, idx, "Y")

		assertAction(t, st, "fresh", session.ActionUnchanged, "")
		assertAction(t, st, "pinned", session.ActionUpdate, "")
	})

	t.Run("auto actioned dependent is overridden", func(t *testing.T) {
		idx := manifest.NewIndex(pack("X", "Y"), pack("Y"))
		st := build(idx, map[string]string{"X": "0.9", "Y": "1.0"})
		st.SetAction("X", session.Auto(session.ActionUpdate, "Required by Z"))
		st.SetAction("Y", session.Manual(session.ActionRemove))

		propagation.PropagateRemovalUp(st, idx, "Y")

		assertAction(t, st, "X", session.ActionRemove, "Depends on Y which is being removed")
	})

	t.Run("cycle terminates", func(t *testing.T) {
		idx := manifest.NewIndex(pack("X", "Y"), pack("Y", "X"))
		st := build(idx, map[string]string{"X": "1.0", "Y": "1.0"})
		st.SetAction("Y", session.Manual(session.ActionRemove))

		propagation.PropagateRemovalUp(st, idx, "Y")

		assertAction(t, st, "X", session.ActionRemove, "Depends on Y which is being removed")
		assertAction(t, st, "Y", session.ActionRemove, "")
		require.NoError(t, st.Validate())
	})
}

// layeredDiamond builds root -> {L00a, L00b} -> {L01a, L01b} -> ... -> base,
// where every pack of a layer depends on both packs of the next one.
func layeredDiamond(layers int) *manifest.Index {
	layer := func(i int) []string {
		if i == layers {
			return []string{"base"}
		}
		return []string{fmt.Sprintf("L%02da", i), fmt.Sprintf("L%02db", i)}
	}
	defs := []manifest.PackDef{pack("root", layer(0)...)}
	for i := 0; i < layers; i++ {
		for _, name := range layer(i) {
			defs = append(defs, pack(name, layer(i+1)...))
		}
	}
	defs = append(defs, pack("base"))
	return manifest.NewIndex(defs...)
}

// withinDeadline fails the test when fn does not return in time
func withinDeadline(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("propagation did not finish; shared dependencies are walked once per path")
	}
}

func TestPropagate_LayeredDiamondIsLinear(t *testing.T) {
	const layers = 40
	idx := layeredDiamond(layers)

	t.Run("down", func(t *testing.T) {
		st := build(idx, nil)
		st.SetAction("root", session.Manual(session.ActionInstall))

		withinDeadline(t, func() { propagation.PropagateDown(st, idx, "root", session.ActionInstall) })

		assertAction(t, st, "L00a", session.ActionInstall, "Required by root")
		assertAction(t, st, "L00b", session.ActionInstall, "Required by root")
		for i := 1; i < layers; i++ {
			reason := fmt.Sprintf("Required by L%02db", i-1)
			assertAction(t, st, fmt.Sprintf("L%02da", i), session.ActionInstall, reason)
			assertAction(t, st, fmt.Sprintf("L%02db", i), session.ActionInstall, reason)
		}
		assertAction(t, st, "base", session.ActionInstall, fmt.Sprintf("Required by L%02db", layers-1))
		require.NoError(t, st.Validate())
	})

	t.Run("removal up", func(t *testing.T) {
		installed := map[string]string{}
		for _, name := range idx.Names() {
			installed[name] = "1.0"
		}
		st := build(idx, installed)
		st.SetAction("base", session.Manual(session.ActionRemove))

		withinDeadline(t, func() { propagation.PropagateRemovalUp(st, idx, "base") })

		last := layers - 1
		assertAction(t, st, fmt.Sprintf("L%02da", last), session.ActionRemove, "Depends on base which is being removed")
		assertAction(t, st, fmt.Sprintf("L%02db", last), session.ActionRemove, "Depends on base which is being removed")
		for i := 0; i < last; i++ {
			reason := fmt.Sprintf("Depends on L%02db which is being removed", i+1)
			assertAction(t, st, fmt.Sprintf("L%02da", i), session.ActionRemove, reason)
			assertAction(t, st, fmt.Sprintf("L%02db", i), session.ActionRemove, reason)
		}
		assertAction(t, st, "root", session.ActionRemove, "Depends on L00b which is being removed")
		require.NoError(t, st.Validate())
	})
}
