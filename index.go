package docstore

import (
	"bytes"
	"fmt"
	"strconv"
)

func indexBucketName(field string) string {
	return "idx." + field
}

// indexKey is the canonical field value, a zero byte, then the record id.
// The zero byte keeps value prefixes from colliding across ids.
func indexKey(value, id string) []byte {
	key := make([]byte, 0, len(value)+1+len(id))
	key = append(key, value...)
	key = append(key, 0)
	key = append(key, id...)
	return key
}

func indexPrefix(value string) []byte {
	prefix := make([]byte, 0, len(value)+1)
	prefix = append(prefix, value...)
	prefix = append(prefix, 0)
	return prefix
}

// canonicalIndexValue folds an indexed attribute into its key string.
// Records missing the attribute contribute no index entry.
func canonicalIndexValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	default:
		return fmt.Sprint(v), true
	}
}

func (s *Store) indexBucketOf(tx storageTx, c *Collection, field string) storageBucket {
	b := tx.Bucket(c.name, indexBucketName(field))
	if b == nil {
		panic(fmt.Errorf("missing index %s.%s", c.name, field))
	}
	return b
}

// updateIndexes reconciles every declared index of c after a write.
// old is nil on create.
func (s *Store) updateIndexes(tx storageTx, c *Collection, old, rec Record) error {
	id := rec.ID()
	for _, field := range c.indexes {
		oldVal, hadOld := "", false
		if old != nil {
			oldVal, hadOld = canonicalIndexValue(old[field])
		}
		newVal, hasNew := canonicalIndexValue(rec[field])
		if hadOld && hasNew && oldVal == newVal {
			continue
		}
		b := s.indexBucketOf(tx, c, field)
		if hadOld {
			if err := b.Delete(indexKey(oldVal, id)); err != nil {
				return storageErrf("index", c.name, err)
			}
		}
		if hasNew {
			if err := b.Put(indexKey(newVal, id), nil); err != nil {
				return storageErrf("index", c.name, err)
			}
		}
	}
	return nil
}

func (s *Store) removeFromIndexes(tx storageTx, c *Collection, old Record) error {
	id := old.ID()
	for _, field := range c.indexes {
		val, had := canonicalIndexValue(old[field])
		if !had {
			continue
		}
		b := s.indexBucketOf(tx, c, field)
		if err := b.Delete(indexKey(val, id)); err != nil {
			return storageErrf("index", c.name, err)
		}
	}
	return nil
}

// ByIndex performs an equality lookup on a declared secondary index.
// Index lookups are a raw storage facility: tombstoned records are
// included. Looking up an undeclared index is a programming error.
func (s *Store) ByIndex(c *Collection, field string, value any) ([]Record, error) {
	if !c.hasIndex(field) {
		panic(fmt.Errorf("no index %s.%s", c.name, field))
	}
	val, ok := canonicalIndexValue(value)
	if !ok {
		return nil, nil
	}
	prefix := indexPrefix(val)

	var out []Record
	err := s.readTx("byindex", c.name, func(tx storageTx) error {
		idx := s.indexBucketOf(tx, c, field)
		data := s.dataBucketOf(tx, c)
		cur := idx.Cursor()
		for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
			id := string(k[len(prefix):])
			raw := data.Get([]byte(id))
			if raw == nil {
				continue // dangling index entry
			}
			rec, err := decodeRecord(raw)
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.verbose {
		s.logf("store: BYINDEX %s.%s/%v => %d", c.name, field, value, len(out))
	}
	return out, nil
}
