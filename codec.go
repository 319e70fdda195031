package docstore

import (
	"time"

	"github.com/google/uuid"
)

// newRecordID generates a collection-unique id without coordination.
// UUIDv7 is time-ordered with a random suffix, so ids also sort in
// creation order, which keeps cursor iteration storage-native.
func newRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// now returns a strictly increasing UTC time, so that updatedAt strictly
// increases across consecutive writes even on coarse clocks.
func (s *Store) now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	t := time.Now().UTC()
	if !t.After(s.lastNow) {
		t = s.lastNow.Add(time.Nanosecond)
	}
	s.lastNow = t
	return t
}

func (s *Store) stamp() string {
	return s.now().Format(TimestampFormat)
}

// normalizeCreate turns a mutation payload into a storable record:
// id assigned if absent, createdAt/updatedAt stamped if absent. Supplied
// lifecycle fields are preserved so that snapshot import reproduces
// records exactly.
func (s *Store) normalizeCreate(fields Record) Record {
	rec := fields.Clone()
	if rec.String(FieldID) == "" {
		rec[FieldID] = newRecordID()
	}
	stamp := s.stamp()
	if rec.String(FieldCreatedAt) == "" {
		rec[FieldCreatedAt] = stamp
	}
	if rec.String(FieldUpdatedAt) == "" {
		rec[FieldUpdatedAt] = stamp
	}
	if _, found := rec[FieldDeletedAt]; found && rec.String(FieldDeletedAt) == "" {
		delete(rec, FieldDeletedAt)
	}
	return rec
}

// normalizeUpdate shallow-merges payload over the existing record.
// Payload fields win, unspecified fields persist, reserved fields in the
// payload are ignored: id and createdAt are immutable, updatedAt is owned
// by the store, deletedAt only changes via Delete/Restore.
func (s *Store) normalizeUpdate(existing, payload Record) Record {
	rec := existing.Clone()
	for k, v := range payload {
		if isReservedField(k) {
			continue
		}
		rec[k] = v
	}
	rec[FieldUpdatedAt] = s.stamp()
	return rec
}
