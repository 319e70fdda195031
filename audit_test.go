package docstore

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestAuditTrail(t *testing.T) {
	store := setup(t)

	id := must(store.Add(employeesColl, Record{"name": "Ahmed"}))
	ok(t, store.Update(employeesColl, id, Record{"points": 10}))
	ok(t, store.Delete(employeesColl, id))
	ok(t, store.Restore(employeesColl, id))

	entries := must(store.AuditEntries())
	deepEqual(t, len(entries), 4)

	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.String(AuditFieldAction)
		deepEqual(t, e.String(AuditFieldCollection), "employees")
		deepEqual(t, e.String(AuditFieldEntityID), id)
		deepEqual(t, e.String(AuditFieldActor), "tester")
		if e.CreatedAt().IsZero() {
			t.Fatalf("** audit entry without timestamp: %v", e)
		}
	}
	deepEqual(t, actions, []string{"add", "update", "delete", "restore"})

	// The add entry has no before snapshot; the update entry has both.
	if _, found := entries[0][AuditFieldBefore]; found {
		t.Fatalf("** add entry carries a before snapshot")
	}
	if _, found := entries[0][AuditFieldAfter]; !found {
		t.Fatalf("** add entry missing after snapshot")
	}
	if _, found := entries[1][AuditFieldBefore]; !found {
		t.Fatalf("** update entry missing before snapshot")
	}
}

func TestAuditSnapshotFields(t *testing.T) {
	store := setupMem(t)

	id := must(store.Add(employeesColl, Record{"name": "Mona"}))
	ok(t, store.Update(employeesColl, id, Record{"name": "Mona K."}))

	entries := must(store.AuditEntries())
	update := entries[len(entries)-1]
	before, _ := update[AuditFieldBefore].(map[string]any)
	after, _ := update[AuditFieldAfter].(map[string]any)
	deepEqual(t, Record(before).String("name"), "Mona")
	deepEqual(t, Record(after).String("name"), "Mona K.")
}

func TestAuditDoesNotRecurse(t *testing.T) {
	store := setupMem(t)

	must(store.Add(employeesColl, Record{"name": "A"}))
	baseline := len(must(store.AuditEntries()))
	deepEqual(t, baseline, 1)

	// Writing to the audit collection directly must not generate an audit
	// entry about the audit write.
	audit := store.Schema().AuditLog()
	must(store.Add(audit, Record{"note": "manual entry"}))
	deepEqual(t, len(must(store.AuditEntries())), baseline+1)
}

func TestAuditActorFollowsSetActor(t *testing.T) {
	store := setupMem(t)

	store.SetActor("night-shift")
	must(store.Add(employeesColl, Record{"name": "B"}))

	entries := must(store.AuditEntries())
	deepEqual(t, entries[len(entries)-1].String(AuditFieldActor), "night-shift")
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	var logged []string
	store, flaky := setupFlaky(t, func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	// One commit for the mutation itself, none left for the audit append.
	flaky.allowCommits(1)
	id := must(store.Add(employeesColl, Record{"name": "Ahmed"}))

	flaky.allowCommits(-1)
	rec := must(store.Get(employeesColl, id))
	deepEqual(t, rec.String("name"), "Ahmed")
	isempty(t, must(store.AuditEntries()))

	if !slices.ContainsFunc(logged, func(line string) bool {
		return strings.Contains(line, "AUDIT.FAIL")
	}) {
		t.Fatalf("** audit failure not logged: %v", logged)
	}
}

func TestHardDeleteAudited(t *testing.T) {
	store := setupMem(t)

	id := must(store.Add(employeesColl, Record{"name": "C"}))
	ok(t, store.HardDelete(employeesColl, id))

	entries := must(store.AuditEntries())
	last := entries[len(entries)-1]
	deepEqual(t, last.String(AuditFieldAction), "purge")
	if _, found := last[AuditFieldBefore]; !found {
		t.Fatalf("** purge entry missing before snapshot")
	}
	if _, found := last[AuditFieldAfter]; found {
		t.Fatalf("** purge entry carries an after snapshot")
	}
}
