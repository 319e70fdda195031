package docstore

import (
	"errors"
	"fmt"
)

// ErrBucketNotFound is returned by storageTx.DeleteBucket when the bucket doesn't exist.
var ErrBucketNotFound = errors.New("bucket not found")

// UnknownCollectionError means the caller referenced a collection name
// outside the fixed registry.
type UnknownCollectionError struct {
	Name string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection %q", e.Name)
}

// NotFoundError means an update or read targeted a nonexistent record id.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s: record not found", e.Collection, e.ID)
}

// ExistsError is returned by Add when the caller supplies an id that is
// already taken. Use Upsert to replace an existing record deliberately.
type ExistsError struct {
	Collection string
	ID         string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s/%s: record already exists", e.Collection, e.ID)
}

// StorageError wraps an underlying engine I/O failure. The store never
// retries these; retry policy belongs to the caller.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func storageErrf(op, collection string, err error) error {
	return &StorageError{Op: op, Collection: collection, Err: err}
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Collection, e.Err)
}

// MalformedSnapshotError means an import document is missing the required
// top-level shape. It is raised before any collection is touched.
type MalformedSnapshotError struct {
	Reason string
}

func (e *MalformedSnapshotError) Error() string {
	return "malformed snapshot: " + e.Reason
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
