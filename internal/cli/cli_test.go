package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/docstore"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "docstore %v", args)
	return out.String()
}

func seedStore(t *testing.T, path string) {
	t.Helper()
	store, err := docstore.Open(path, Registry(), docstore.Options{IsTesting: true, Actor: "seeder"})
	require.NoError(t, err)
	defer store.Close()

	employees, err := store.Collection("employees")
	require.NoError(t, err)
	_, err = store.Add(employees, docstore.Record{"name": "Ahmed", "department": "IT"})
	require.NoError(t, err)
	_, err = store.Add(employees, docstore.Record{"name": "Mona", "department": "HR"})
	require.NoError(t, err)
	require.NoError(t, store.AddTag("urgent"))
}

func TestRegistry(t *testing.T) {
	scm := Registry()
	for _, name := range []string{"employees", "tasks", "correspondence", "attachments", "system_settings", "audit_log"} {
		_, err := scm.CollectionNamed(name)
		assert.NoError(t, err, name)
	}
	_, err := scm.CollectionNamed("invoices")
	assert.Error(t, err)
}

func TestExportImportCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	snap := filepath.Join(dir, "backup.json")
	seedStore(t, src)

	runCommand(t, "--db", src, "export", "-o", snap)
	runCommand(t, "--db", dst, "import", snap)

	store, err := docstore.Open(dst, Registry(), docstore.Options{IsTesting: true})
	require.NoError(t, err)
	defer store.Close()

	employees, err := store.Collection("employees")
	require.NoError(t, err)
	count, err := store.Count(employees)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	tags, err := store.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, tags)
}

func TestTagsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tags.db")

	runCommand(t, "--db", db, "tags", "add", "urgent")
	runCommand(t, "--db", db, "tags", "add", "later")
	runCommand(t, "--db", db, "tags", "rename", "urgent", "critical")
	runCommand(t, "--db", db, "tags", "rm", "later")

	out := runCommand(t, "--db", db, "tags", "list")
	assert.Equal(t, "critical\n", out)
}

func TestTrashCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "trash.db")

	store, err := docstore.Open(db, Registry(), docstore.Options{IsTesting: true})
	require.NoError(t, err)
	employees, err := store.Collection("employees")
	require.NoError(t, err)
	id, err := store.Add(employees, docstore.Record{"name": "Tarek"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(employees, id))
	require.NoError(t, store.Close())

	out := runCommand(t, "--db", db, "trash", "list")
	assert.Contains(t, out, id)

	runCommand(t, "--db", db, "trash", "restore", "employees", id)
	out = runCommand(t, "--db", db, "trash", "list")
	assert.NotContains(t, out, id)

	store, err = docstore.Open(db, Registry(), docstore.Options{IsTesting: true})
	require.NoError(t, err)
	require.NoError(t, store.Delete(employees, id))
	require.NoError(t, store.Close())

	runCommand(t, "--db", db, "trash", "purge", "employees")
	store, err = docstore.Open(db, Registry(), docstore.Options{IsTesting: true})
	require.NoError(t, err)
	defer store.Close()
	rec, err := store.Get(employees, id)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStatusCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "status.db")
	seedStore(t, db)

	out := runCommand(t, "--db", db, "status")
	assert.Contains(t, out, "employees")
	assert.Contains(t, out, "ACTIVE")
}
