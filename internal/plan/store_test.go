package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faize-ai/archbox/internal/provision"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *provision.Plan {
	p := provision.NewPlan("vagrant-bindfs")
	p.SetDefaultProvider("virtualbox")
	p.SetBox("archlinux/archlinux")
	p.SetHostname("archlinux")
	p.ForwardPort(provision.ForwardedPort{Guest: 80, Host: 8080})
	p.Shell(provision.Shell{Name: "key", Inline: "echo hi", Args: []string{"a"}})
	p.SyncedFolder(provision.SyncedFolder{Source: "/src", Destination: "/srv", Type: "nfs", MountOptions: []string{"nolock"}})
	return p
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "plans"))
	require.NoError(t, err)
	return store
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("/work/app", "/work/app/archbox.yaml", samplePlan())

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "virtualbox", r.Provider)
	assert.Equal(t, StatusRendered, r.Status)
	assert.False(t, r.Stopped())
	assert.Nil(t, r.StoppedAt)
	assert.Len(t, r.ShortID(), 8)
}

func TestRecordMarkStopped(t *testing.T) {
	r := NewRecord("/work/app", "", samplePlan())
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	r.MarkStopped(StatusHalted, now)

	assert.True(t, r.Stopped())
	require.NotNil(t, r.StoppedAt)
	assert.Equal(t, now, *r.StoppedAt)
}

func TestRecordSerialization(t *testing.T) {
	r := NewRecord("/work/app", "", samplePlan())

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, r.ID, m["id"])
	assert.Equal(t, "/work/app", m["project_dir"])
	assert.NotContains(t, m, "settings_file")
	assert.NotContains(t, m, "stopped_at")

	plan, ok := m["plan"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "archlinux/archlinux", plan["box"])
}

func TestStoreSaveLoad(t *testing.T) {
	store := newTestStore(t)
	r := NewRecord("/work/app", "/work/app/archbox.yaml", samplePlan())

	require.NoError(t, store.Save(r))
	assert.FileExists(t, filepath.Join(store.Dir(), r.ID+".json"))

	loaded, err := store.Load(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, loaded.ID)
	assert.Equal(t, r.ProjectDir, loaded.ProjectDir)
	assert.Equal(t, r.SettingsFile, loaded.SettingsFile)
	assert.True(t, r.CreatedAt.Equal(loaded.CreatedAt))
	require.NotNil(t, loaded.Plan)
	assert.Equal(t, r.Plan.ForwardedPorts, loaded.Plan.ForwardedPorts)
	assert.Equal(t, r.Plan.SyncedFolders, loaded.Plan.SyncedFolders)
	assert.Equal(t, r.Plan.Shells(), loaded.Plan.Shells())
}

func TestStoreLoadByPrefix(t *testing.T) {
	store := newTestStore(t)
	r := NewRecord("/work/app", "", samplePlan())
	require.NoError(t, store.Save(r))

	loaded, err := store.Load(r.ShortID())
	require.NoError(t, err)
	assert.Equal(t, r.ID, loaded.ID)
}

func TestStoreLoadAmbiguousPrefix(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"abc11111", "abc22222"} {
		r := NewRecord("/work/app", "", samplePlan())
		r.ID = id
		require.NoError(t, store.Save(r))
	}

	_, err := store.Load("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	older := NewRecord("/work/a", "", samplePlan())
	older.CreatedAt = base
	newer := NewRecord("/work/b", "", samplePlan())
	newer.CreatedAt = base.Add(time.Hour)

	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	// Invalid files are skipped
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestStoreListEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestStoreLatest(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	first := NewRecord("/work/app", "", samplePlan())
	first.CreatedAt = base
	second := NewRecord("/work/app", "", samplePlan())
	second.CreatedAt = base.Add(time.Minute)
	other := NewRecord("/work/other", "", samplePlan())
	other.CreatedAt = base.Add(time.Hour)

	for _, r := range []*Record{first, second, other} {
		require.NoError(t, store.Save(r))
	}

	latest, err := store.Latest("/work/app")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = store.Latest("/work/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	r := NewRecord("/work/app", "", samplePlan())
	require.NoError(t, store.Save(r))

	require.NoError(t, store.Delete(r.ID))
	_, err := store.Load(r.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(r.ID))
}

func TestNewDefaultStore(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	store, err := NewDefaultStore()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".archbox", "plans"), store.Dir())
	assert.DirExists(t, store.Dir())
}
