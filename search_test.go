package docstore

import "testing"

func TestSearch(t *testing.T) {
	store := setup(t)

	ahmed := must(store.Add(employeesColl, Record{"name": "Ahmed Hassan", "title": "Clerk"}))
	mona := must(store.Add(employeesColl, Record{"name": "Mona Said", "title": "Archivist"}))
	omar := must(store.Add(employeesColl, Record{"name": "Omar Farouk", "title": "Senior clerk"}))

	// Case-insensitive substring across the whitelisted fields.
	deepEqual(t, recordIDs(must(store.Search(employeesColl, "aHmEd", "name"))), []string{ahmed})
	deepEqual(t, recordIDs(must(store.Search(employeesColl, "clerk", "name", "title"))), []string{ahmed, omar})

	// Fields outside the whitelist are not consulted.
	isempty(t, must(store.Search(employeesColl, "archivist", "name")))

	// Soft-deleted records never match.
	ok(t, store.Delete(employeesColl, mona))
	isempty(t, must(store.Search(employeesColl, "mona", "name")))
	ok(t, store.Restore(employeesColl, mona))
	deepEqual(t, recordIDs(must(store.Search(employeesColl, "mona", "name"))), []string{mona})
}

func TestSearchNonStringFieldsIgnored(t *testing.T) {
	store := setupMem(t)

	must(store.Add(employeesColl, Record{"name": "N", "points": 42}))
	isempty(t, must(store.Search(employeesColl, "42", "points")))
}

func TestSearchEmptyTermReturnsAll(t *testing.T) {
	store := setupMem(t)

	a := must(store.Add(employeesColl, Record{"name": "A"}))
	b := must(store.Add(employeesColl, Record{"name": "B"}))
	deepEqual(t, recordIDs(must(store.Search(employeesColl, "", "name"))), []string{a, b})
}
