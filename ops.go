package docstore

// Query selects the visibility mode of a listing. The zero value is the
// default view: active records only. Tombstones must be requested
// explicitly so the two modes cannot be silently confused.
type Query struct {
	IncludeTombstones bool
}

// Add persists a new record and returns its id. If the caller supplies an
// id that is already taken, Add fails with ExistsError; use Upsert for
// deliberate replacement.
func (s *Store) Add(c *Collection, fields Record) (string, error) {
	rec := s.normalizeCreate(fields)
	id := rec.ID()
	err := s.writeTx("add", c.name, func(tx storageTx) error {
		data := s.dataBucketOf(tx, c)
		if data.Get([]byte(id)) != nil {
			return &ExistsError{Collection: c.name, ID: id}
		}
		return s.putRecord(tx, c, nil, rec)
	})
	if err != nil {
		return "", err
	}
	if s.verbose {
		s.logf("store: ADD %s/%s", c.name, id)
	}
	s.afterCommit(c, ActionAdd, id, nil, rec)
	return id, nil
}

// Upsert persists a record, replacing any existing record with the same
// id. createdAt stays immutable: the existing record's creation stamp wins
// over the payload's.
func (s *Store) Upsert(c *Collection, fields Record) (string, error) {
	rec := s.normalizeCreate(fields)
	id := rec.ID()
	var old Record
	err := s.writeTx("upsert", c.name, func(tx storageTx) error {
		var err error
		old, err = s.getRecord(tx, c, id)
		if err != nil {
			return err
		}
		if old != nil {
			if created := old.String(FieldCreatedAt); created != "" {
				rec[FieldCreatedAt] = created
			}
		}
		return s.putRecord(tx, c, old, rec)
	})
	if err != nil {
		return "", err
	}
	action := ActionAdd
	if old != nil {
		action = ActionUpdate
	}
	if s.verbose {
		s.logf("store: UPSERT.%s %s/%s", action, c.name, id)
	}
	s.afterCommit(c, action, id, old, rec)
	return id, nil
}

// Update shallow-merges fields over the existing record: payload fields
// win, unspecified fields persist, updatedAt is refreshed.
func (s *Store) Update(c *Collection, id string, fields Record) error {
	var old, rec Record
	err := s.writeTx("update", c.name, func(tx storageTx) error {
		var err error
		old, err = s.getRecord(tx, c, id)
		if err != nil {
			return err
		}
		if old == nil {
			return &NotFoundError{Collection: c.name, ID: id}
		}
		rec = s.normalizeUpdate(old, fields)
		return s.putRecord(tx, c, old, rec)
	})
	if err != nil {
		return err
	}
	if s.verbose {
		s.logf("store: UPDATE %s/%s", c.name, id)
	}
	s.afterCommit(c, ActionUpdate, id, old, rec)
	return nil
}

// Delete tombstones a record by setting deletedAt. Deleting a missing or
// already-deleted record is a no-op, keeping delete idempotent.
func (s *Store) Delete(c *Collection, id string) error {
	var old, rec Record
	err := s.writeTx("delete", c.name, func(tx storageTx) error {
		var err error
		old, err = s.getRecord(tx, c, id)
		if err != nil {
			return err
		}
		if old == nil || old.IsDeleted() {
			return nil
		}
		rec = old.Clone()
		rec[FieldDeletedAt] = s.stamp()
		return s.putRecord(tx, c, old, rec)
	})
	if err != nil {
		return err
	}
	if rec == nil {
		return nil // no-op
	}
	if s.verbose {
		s.logf("store: DELETE %s/%s", c.name, id)
	}
	s.afterCommit(c, ActionDelete, id, old, rec)
	return nil
}

// Restore clears deletedAt, returning the record to the default views.
func (s *Store) Restore(c *Collection, id string) error {
	var old, rec Record
	err := s.writeTx("restore", c.name, func(tx storageTx) error {
		var err error
		old, err = s.getRecord(tx, c, id)
		if err != nil {
			return err
		}
		if old == nil {
			return &NotFoundError{Collection: c.name, ID: id}
		}
		if !old.IsDeleted() {
			return nil
		}
		rec = old.Clone()
		delete(rec, FieldDeletedAt)
		return s.putRecord(tx, c, old, rec)
	})
	if err != nil {
		return err
	}
	if rec == nil {
		return nil // wasn't deleted
	}
	if s.verbose {
		s.logf("store: RESTORE %s/%s", c.name, id)
	}
	s.afterCommit(c, ActionRestore, id, old, rec)
	return nil
}

// HardDelete unconditionally removes the record and its index entries from
// storage. Used by the trash purge; missing ids are a no-op.
func (s *Store) HardDelete(c *Collection, id string) error {
	var old Record
	err := s.writeTx("purge", c.name, func(tx storageTx) error {
		var err error
		old, err = s.getRecord(tx, c, id)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		data := s.dataBucketOf(tx, c)
		if err := data.Delete([]byte(id)); err != nil {
			return storageErrf("purge", c.name, err)
		}
		return s.removeFromIndexes(tx, c, old)
	})
	if err != nil {
		return err
	}
	if old == nil {
		return nil
	}
	if s.verbose {
		s.logf("store: PURGE %s/%s", c.name, id)
	}
	s.afterCommit(c, ActionPurge, id, old, nil)
	return nil
}

// Get retrieves a record by id, tombstoned or not. Returns nil if absent.
func (s *Store) Get(c *Collection, id string) (Record, error) {
	var rec Record
	err := s.readTx("get", c.name, func(tx storageTx) error {
		var err error
		rec, err = s.getRecord(tx, c, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// All returns the active records of c in storage-native (id) order.
func (s *Store) All(c *Collection) ([]Record, error) {
	return s.Records(c, Query{})
}

// Deleted returns only the tombstoned records of c, for the trash view.
func (s *Store) Deleted(c *Collection) ([]Record, error) {
	recs, err := s.Records(c, Query{IncludeTombstones: true})
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range recs {
		if rec.IsDeleted() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Records lists the collection under an explicit visibility mode.
func (s *Store) Records(c *Collection, q Query) ([]Record, error) {
	var out []Record
	err := s.readTx("list", c.name, func(tx storageTx) error {
		data := s.dataBucketOf(tx, c)
		out = make([]Record, 0, data.KeyCount())
		cur := data.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			if !q.IncludeTombstones && rec.IsDeleted() {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of active records in c.
func (s *Store) Count(c *Collection) (int, error) {
	recs, err := s.All(c)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *Store) getRecord(tx storageTx, c *Collection, id string) (Record, error) {
	data := s.dataBucketOf(tx, c)
	raw := data.Get([]byte(id))
	if raw == nil {
		return nil, nil
	}
	return decodeRecord(raw)
}

func (s *Store) putRecord(tx storageTx, c *Collection, old, rec Record) error {
	data := s.dataBucketOf(tx, c)
	if err := data.Put([]byte(rec.ID()), encodeRecord(rec)); err != nil {
		return storageErrf("put", c.name, err)
	}
	return s.updateIndexes(tx, c, old, rec)
}

// afterCommit runs the post-commit hooks of a successful mutation: the
// fire-and-forget audit append, then the synchronous subscriber fan-out.
// Each hook is fault-isolated; neither can undo the committed write.
func (s *Store) afterCommit(c *Collection, action Action, id string, before, after Record) {
	s.recordAudit(c, action, id, before, after)

	ev := Event{Action: action, Collection: c.name, ID: id}
	switch action {
	case ActionAdd, ActionUpdate, ActionRestore:
		ev.Record = after
	}
	s.publish(c, ev)
}
