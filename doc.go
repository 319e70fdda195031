/*
Package docstore implements an embedded multi-collection document store
on top of a key-value store (in this case, on top of Bolt).

We implement:

1. Collections, fixed namespaces of schema-free records keyed by a string id.

2. Lifecycle stamping: createdAt set once, updatedAt refreshed on every
write, deletedAt marking a record as a tombstone.

3. Soft delete: tombstoned records are excluded from normal listings but
stay retrievable by direct id lookup and via the trash listing, until an
explicit purge.

4. Secondary indices, allowing equality lookup of records by a declared
attribute. Indices are a raw storage facility and do not hide tombstones.

5. An audit trail: every mutation appends an entry to a built-in audit
collection. Audit writes never recurse and never fail the mutation they
describe.

6. Change notification: per-collection subscribers invoked synchronously
after a successful commit, each isolated from the others' panics.

7. Settings and a tag vocabulary stored in a built-in singleton record,
with rename/delete cascading through collections that declare tag fields.

8. Whole-store export/import as a JSON snapshot document.

# Technical Details

**Buckets.**
Each collection owns a root bucket with a nested "data" bucket (id to
msgpack-encoded record) and one nested "idx.<field>" bucket per declared
index. Index keys are the canonical field value, a zero byte, then the id.

**Record encoding.**
Records are maps of field name to value, encoded with msgpack using sorted
map keys. The three lifecycle timestamps are RFC 3339 strings so that the
stored form and the JSON export document round-trip exactly.

**Write path.**
Each mutation runs in a single storage transaction: record put plus index
maintenance, then commit. Post-commit hooks run after the transaction is
durable: first the audit append, then the synchronous subscriber fan-out.
A failed mutation therefore leaves the store exactly as it was.
*/
package docstore
