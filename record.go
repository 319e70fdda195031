package docstore

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Reserved record fields managed by the store.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt"
)

// TimestampFormat is the wire format of the lifecycle timestamps. Strings
// survive both the msgpack storage encoding and the JSON export document
// without type drift.
const TimestampFormat = time.RFC3339Nano

// Record is a single stored document: an opaque, collection-specific
// mapping of field names to values, always carrying id, createdAt and
// updatedAt, plus deletedAt while tombstoned.
type Record map[string]any

func (rec Record) ID() string {
	return rec.String(FieldID)
}

func (rec Record) CreatedAt() time.Time {
	return rec.Time(FieldCreatedAt)
}

func (rec Record) UpdatedAt() time.Time {
	return rec.Time(FieldUpdatedAt)
}

func (rec Record) DeletedAt() time.Time {
	return rec.Time(FieldDeletedAt)
}

// IsDeleted reports whether the record is a tombstone.
func (rec Record) IsDeleted() bool {
	_, found := rec[FieldDeletedAt]
	return found
}

// String returns the named field if it holds a string, else "".
func (rec Record) String(field string) string {
	s, _ := rec[field].(string)
	return s
}

// Time parses the named field as a lifecycle timestamp, returning the zero
// time if absent or unparsable.
func (rec Record) Time(field string) time.Time {
	s, ok := rec[field].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Int returns the named field as an int64. Numbers arrive with different
// concrete types depending on whether the record came from the caller,
// from msgpack or from a JSON snapshot.
func (rec Record) Int(field string) (int64, bool) {
	switch v := rec[field].(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Strings returns the named field as a list of strings, tolerating both
// []string and the []any produced by decoding.
func (rec Record) Strings(field string) []string {
	return stringList(rec[field])
}

func (rec Record) Clone() Record {
	if rec == nil {
		return Record{}
	}
	return maps.Clone(rec)
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func isReservedField(name string) bool {
	switch name {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldDeletedAt:
		return true
	}
	return false
}

func encodeRecord(rec Record) []byte {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(map[string]any(rec))
	msgpack.PutEncoder(enc)
	if err != nil {
		panic(fmt.Errorf("failed to encode record using MsgPack: %w", err))
	}
	return buf.Bytes()
}

func decodeRecord(data []byte) (Record, error) {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	var m map[string]any
	err := dec.Decode(&m)
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, dataErrf(data, err, "failed to decode msgpack record")
	}
	return Record(m), nil
}

// DataError describes an undecodable stored value.
type DataError struct {
	Data []byte
	Err  error
	Msg  string
}

func dataErrf(data []byte, err error, format string, args ...any) error {
	return &DataError{data, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	n := len(e.Data)
	if n <= prefixLen {
		return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
	}
	return fmt.Sprintf("%s: %v: (%d) %x...", e.Msg, e.Err, n, e.Data[:prefixLen])
}
