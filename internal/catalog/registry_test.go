package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubera-io/cubera/internal/meta"
)

func buildSnapshot(t *testing.T, modelName string) *Snapshot {
	t.Helper()
	snap, err := Build(
		[]*meta.DataModel{testModel(t, modelName)},
		[]*meta.Realization{testRealization("cube_a", modelName, true)})
	require.NoError(t, err)
	return snap
}

func TestRegistry_PublishAndLookup(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Snapshot("default")
	assert.False(t, ok)

	snap := buildSnapshot(t, "m1")
	reg.Publish("default", snap)

	got, ok := reg.Snapshot("default")
	require.True(t, ok)
	assert.Same(t, snap, got)
}

func TestRegistry_PublishReplaces(t *testing.T) {
	reg := NewRegistry()

	first := buildSnapshot(t, "m1")
	reg.Publish("default", first)

	// A reader holding the old snapshot keeps it even after a swap.
	held, _ := reg.Snapshot("default")

	second := buildSnapshot(t, "m2")
	reg.Publish("default", second)

	current, ok := reg.Snapshot("default")
	require.True(t, ok)
	assert.Same(t, second, current)
	assert.Same(t, first, held)
	_, ok = held.Model("m1")
	assert.True(t, ok, "old snapshot must stay intact after publish")
}

func TestRegistry_Drop(t *testing.T) {
	reg := NewRegistry()
	reg.Publish("default", buildSnapshot(t, "m1"))

	reg.Drop("default")
	_, ok := reg.Snapshot("default")
	assert.False(t, ok)

	// Dropping a missing project is a no-op.
	reg.Drop("default")
}

func TestRegistry_ConcurrentPublishAndRead(t *testing.T) {
	reg := NewRegistry()
	snapA := buildSnapshot(t, "m1")
	snapB := buildSnapshot(t, "m2")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if i%2 == 0 {
					reg.Publish("default", snapA)
				} else {
					reg.Publish("default", snapB)
				}
				if snap, ok := reg.Snapshot("default"); ok {
					// Whichever version we see must be fully built.
					assert.NotEmpty(t, snap.Fingerprint())
				}
			}
		}(i)
	}
	wg.Wait()

	got, ok := reg.Snapshot("default")
	require.True(t, ok)
	assert.Contains(t, []*Snapshot{snapA, snapB}, got)
}
