package docstore

import (
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot is the export document: collection names mapping to that
// collection's records. Serialized as a JSON object of arrays.
type Snapshot map[string][]Record

type ExportOptions struct {
	// IncludeTombstones makes the export carry soft-deleted records too.
	// The default backup deliberately does not resurrect deleted data.
	IncludeTombstones bool
}

// Export assembles a snapshot of every collection in the registry.
func (s *Store) Export(opt ExportOptions) (Snapshot, error) {
	snap := make(Snapshot, len(s.schema.colls))
	for _, c := range s.schema.colls {
		recs, err := s.Records(c, Query{IncludeTombstones: opt.IncludeTombstones})
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []Record{}
		}
		snap[c.name] = recs
	}
	if s.verbose {
		s.logf("store: EXPORT %d collections", len(snap))
	}
	return snap, nil
}

// Import restores a snapshot collection-by-collection: all existing
// records of a collection present in the snapshot are cleared, then the
// snapshot's records are re-added with upsert semantics (ids and
// lifecycle stamps preserved).
//
// Collection names are validated against the registry before anything is
// mutated. The import is not atomic across collections: a mid-import
// storage failure leaves earlier collections replaced and later ones
// untouched.
func (s *Store) Import(snap Snapshot) error {
	if snap == nil {
		return &MalformedSnapshotError{Reason: "no snapshot"}
	}
	for name := range snap {
		if _, err := s.schema.CollectionNamed(name); err != nil {
			return err
		}
	}

	for _, c := range s.schema.colls {
		recs, found := snap[c.name]
		if !found {
			continue
		}
		if err := s.clearCollection(c); err != nil {
			return err
		}
		for _, rec := range recs {
			if _, err := s.Upsert(c, rec); err != nil {
				return err
			}
		}
		if s.verbose {
			s.logf("store: IMPORT %s: %d records", c.name, len(recs))
		}
	}
	return nil
}

// ExportJSON writes the snapshot in the export wire shape: a JSON object
// whose keys are collection names and whose values are record arrays.
func (s *Store) ExportJSON(w io.Writer, opt ExportOptions) error {
	snap, err := s.Export(opt)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ImportJSON parses and validates an export document, then imports it.
// Shape violations fail with MalformedSnapshotError before any collection
// is touched.
func (s *Store) ImportJSON(r io.Reader) error {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return &MalformedSnapshotError{Reason: err.Error()}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return &MalformedSnapshotError{Reason: fmt.Sprintf("top-level value must be an object of collections, got %T", doc)}
	}

	snap := make(Snapshot, len(obj))
	for name, v := range obj {
		arr, ok := v.([]any)
		if !ok {
			return &MalformedSnapshotError{Reason: fmt.Sprintf("collection %q must be an array of records", name)}
		}
		recs := make([]Record, 0, len(arr))
		for i, item := range arr {
			m, ok := item.(map[string]any)
			if !ok {
				return &MalformedSnapshotError{Reason: fmt.Sprintf("collection %q record %d is not an object", name, i)}
			}
			recs = append(recs, Record(m))
		}
		snap[name] = recs
	}
	return s.Import(snap)
}

// clearCollection drops and recreates the collection's buckets, wiping
// active records, tombstones and index entries alike.
func (s *Store) clearCollection(c *Collection) error {
	return s.writeTx("clear", c.name, func(tx storageTx) error {
		subs := []string{dataBucket}
		for _, field := range c.indexes {
			subs = append(subs, indexBucketName(field))
		}
		for _, sub := range subs {
			err := tx.DeleteBucket(c.name, sub)
			if err != nil && err != ErrBucketNotFound {
				return storageErrf("clear", c.name, err)
			}
			if _, err := tx.CreateBucket(c.name, sub); err != nil {
				return storageErrf("clear", c.name, err)
			}
		}
		return nil
	})
}
