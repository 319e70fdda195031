package docstore

import (
	"fmt"
	"slices"
)

// Built-in collections present in every registry.
const (
	SettingsCollectionName = "system_settings"
	AuditCollectionName    = "audit_log"

	// SettingsRecordID is the fixed id of the singleton settings record.
	SettingsRecordID = "global"

	// SettingsTagsField holds the tag vocabulary inside the settings record.
	SettingsTagsField = "tags"
)

// Schema is the fixed registry of collections, declared up front.
// Referencing a collection outside the registry is an error.
type Schema struct {
	colls       []*Collection
	collsByName map[string]*Collection

	settings *Collection
	audit    *Collection
}

func NewSchema() *Schema {
	scm := &Schema{
		collsByName: make(map[string]*Collection),
	}
	scm.settings = AddCollection(scm, SettingsCollectionName)
	scm.audit = AddCollection(scm, AuditCollectionName)
	return scm
}

// Collection is a named, independent namespace of records, analogous to a
// table. Values are declaration-time handles; obtain them from
// AddCollection or Schema.CollectionNamed.
type Collection struct {
	name      string
	indexes   []string
	tagFields []string
}

type CollectionOption func(c *Collection)

// WithIndex declares a secondary equality index on the named attribute.
func WithIndex(field string) CollectionOption {
	return func(c *Collection) {
		if !slices.Contains(c.indexes, field) {
			c.indexes = append(c.indexes, field)
		}
	}
}

// WithTagFields declares which record fields hold tag strings, making the
// collection a target for the tag rename/delete cascade.
func WithTagFields(fields ...string) CollectionOption {
	return func(c *Collection) {
		c.tagFields = append(c.tagFields, fields...)
	}
}

func AddCollection(scm *Schema, name string, opts ...CollectionOption) *Collection {
	if name == "" {
		panic("collection name must not be empty")
	}
	if scm.collsByName[name] != nil {
		panic(fmt.Errorf("collection %q defined twice", name))
	}
	c := &Collection{name: name}
	for _, opt := range opts {
		opt(c)
	}
	scm.colls = append(scm.colls, c)
	scm.collsByName[name] = c
	return c
}

func (scm *Schema) Collections() []*Collection {
	return slices.Clone(scm.colls)
}

func (scm *Schema) CollectionNamed(name string) (*Collection, error) {
	c := scm.collsByName[name]
	if c == nil {
		return nil, &UnknownCollectionError{Name: name}
	}
	return c, nil
}

// Settings returns the built-in system settings collection.
func (scm *Schema) Settings() *Collection {
	return scm.settings
}

// AuditLog returns the built-in audit trail collection.
func (scm *Schema) AuditLog() *Collection {
	return scm.audit
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Indexes() []string {
	return slices.Clone(c.indexes)
}

func (c *Collection) TagFields() []string {
	return slices.Clone(c.tagFields)
}

func (c *Collection) hasIndex(field string) bool {
	return slices.Contains(c.indexes, field)
}
