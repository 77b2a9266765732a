package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wigglybands/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "scenes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSnapshot(t *testing.T, bands int) sim.Snapshot {
	t.Helper()
	w, err := sim.NewWorld(sim.DefaultSettings(), 3)
	require.NoError(t, err)
	defer w.Close()
	for i := 0; i < bands; i++ {
		w.AddRandomBand()
	}
	w.Step(1.0 / sim.TicksPerSecond)
	return w.Snapshot()
}

func TestSaveAndLoadScene(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	snap := testSnapshot(t, 6)

	saved, err := db.SaveScene(ctx, "six", snap)
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "six", saved.Name)
	assert.Equal(t, len(snap.Entities), saved.Bands)

	got, loaded, err := db.LoadScene(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	// the wiggle phase is render state and is not persisted
	for i := range snap.Entities {
		snap.Entities[i].WigglePhase = 0
	}
	if diff := cmp.Diff(snap, loaded); diff != "" {
		t.Errorf("loaded snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestListScenesNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	snap := testSnapshot(t, 2)

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		s, err := db.SaveScene(ctx, name, snap)
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	all, err := db.ListScenes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].Name, all[1].Name, all[2].Name})

	two, err := db.ListScenes(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	latest, _, err := db.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)
}

func TestMissingScenes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, _, err := db.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = db.LoadScene(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteScene(ctx, "nope"), ErrNotFound)
}

func TestDeleteScene(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s, err := db.SaveScene(ctx, "gone", testSnapshot(t, 1))
	require.NoError(t, err)

	require.NoError(t, db.DeleteScene(ctx, s.ID))
	list, err := db.ListScenes(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReopenKeepsScenes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.SaveScene(context.Background(), "kept", testSnapshot(t, 3))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	list, err := db.ListScenes(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Name)
	assert.Equal(t, 3, list[0].Bands)
}
