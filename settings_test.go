package docstore

import "testing"

func TestSettingsUpsert(t *testing.T) {
	store := setup(t)

	settings := must(store.Settings())
	if settings != nil {
		t.Fatalf("** settings present before first save: %v", settings)
	}

	ok(t, store.SaveSettings(Record{"orgName": "Directorate", "theme": "dark"}))
	ok(t, store.SaveSettings(Record{"theme": "light"}))

	settings = must(store.Settings())
	deepEqual(t, settings.ID(), SettingsRecordID)
	deepEqual(t, settings.String("orgName"), "Directorate")
	deepEqual(t, settings.String("theme"), "light")
}

func TestAddTagSetSemantics(t *testing.T) {
	store := setupMem(t)

	ok(t, store.AddTag("urgent"))
	ok(t, store.AddTag("urgent"))
	ok(t, store.AddTag("later"))
	deepEqual(t, must(store.Tags()), []string{"urgent", "later"})
}

func TestRenameTagCascades(t *testing.T) {
	store := setup(t)

	ok(t, store.AddTag("urgent"))
	ok(t, store.AddTag("later"))

	task := must(store.Add(tasksColl, Record{"title": "t1", "tags": []string{"urgent", "later"}}))
	letter := must(store.Add(corresColl, Record{"subject": "l1", "tags": []string{"urgent"}}))
	gone := must(store.Add(tasksColl, Record{"title": "t2", "tags": []string{"urgent"}}))
	ok(t, store.Delete(tasksColl, gone))

	ok(t, store.RenameTag("urgent", "critical"))

	deepEqual(t, must(store.Tags()), []string{"critical", "later"})
	deepEqual(t, must(store.Get(tasksColl, task)).Strings("tags"), []string{"critical", "later"})
	deepEqual(t, must(store.Get(corresColl, letter)).Strings("tags"), []string{"critical"})

	// Tombstoned records are rewritten too, or restore would resurrect
	// the dangling string.
	deepEqual(t, must(store.Get(tasksColl, gone)).Strings("tags"), []string{"critical"})
}

func TestRenameTagMergesDuplicates(t *testing.T) {
	store := setupMem(t)

	ok(t, store.AddTag("urgent"))
	ok(t, store.AddTag("critical"))
	task := must(store.Add(tasksColl, Record{"title": "t", "tags": []string{"urgent", "critical"}}))

	ok(t, store.RenameTag("urgent", "critical"))
	deepEqual(t, must(store.Tags()), []string{"critical"})
	deepEqual(t, must(store.Get(tasksColl, task)).Strings("tags"), []string{"critical"})
}

func TestDeleteTagCascades(t *testing.T) {
	store := setupMem(t)

	ok(t, store.AddTag("urgent"))
	ok(t, store.AddTag("later"))
	task := must(store.Add(tasksColl, Record{"title": "t", "tags": []string{"urgent", "later"}}))

	ok(t, store.DeleteTag("urgent"))
	deepEqual(t, must(store.Tags()), []string{"later"})
	deepEqual(t, must(store.Get(tasksColl, task)).Strings("tags"), []string{"later"})

	// Deleting an unknown tag is a no-op.
	ok(t, store.DeleteTag("nonexistent"))
}

func TestTagCascadeScalarField(t *testing.T) {
	store := setupMem(t)

	ok(t, store.AddTag("urgent"))
	id := must(store.Add(corresColl, Record{"subject": "s1", "tags": "urgent"}))

	ok(t, store.RenameTag("urgent", "critical"))
	deepEqual(t, must(store.Get(corresColl, id)).String("tags"), "critical")

	// A scalar tag field clears to the empty string on delete.
	ok(t, store.DeleteTag("critical"))
	deepEqual(t, must(store.Get(corresColl, id)).String("tags"), "")
}
