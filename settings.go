package docstore

import "slices"

// Settings returns the singleton settings record, or nil if it has never
// been saved.
func (s *Store) Settings() (Record, error) {
	return s.Get(s.schema.settings, SettingsRecordID)
}

// SaveSettings upserts the settings record: created if absent, otherwise
// the provided fields overwrite their previous values and everything else
// persists.
func (s *Store) SaveSettings(fields Record) error {
	existing, err := s.Settings()
	if err != nil {
		return err
	}
	if existing == nil {
		rec := fields.Clone()
		rec[FieldID] = SettingsRecordID
		_, err = s.Add(s.schema.settings, rec)
		return err
	}
	return s.Update(s.schema.settings, SettingsRecordID, fields)
}

// Tags returns the tag vocabulary: an ordered, duplicate-free list of
// strings kept inside the settings record. Default is empty.
func (s *Store) Tags() ([]string, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, nil
	}
	return settings.Strings(SettingsTagsField), nil
}

// AddTag appends a tag to the vocabulary unless already present.
// Set semantics are enforced here, not by storage.
func (s *Store) AddTag(tag string) error {
	tags, err := s.Tags()
	if err != nil {
		return err
	}
	if slices.Contains(tags, tag) {
		return nil
	}
	return s.SaveSettings(Record{SettingsTagsField: append(tags, tag)})
}

// RenameTag substitutes old for new in the vocabulary and cascades the
// substitution through every collection that declared tag fields, so no
// record is left referencing the old string. Tag identity is the string
// value itself; rename is destructive substitution, not a stable id.
func (s *Store) RenameTag(old, new string) error {
	tags, err := s.Tags()
	if err != nil {
		return err
	}
	i := slices.Index(tags, old)
	if i < 0 || old == new {
		return nil
	}
	if slices.Contains(tags, new) {
		tags = slices.Delete(tags, i, i+1)
	} else {
		tags[i] = new
	}
	if err := s.SaveSettings(Record{SettingsTagsField: tags}); err != nil {
		return err
	}
	return s.cascadeTag(old, new)
}

// DeleteTag removes a tag from the vocabulary and strips it from every
// record in collections that declared tag fields.
func (s *Store) DeleteTag(tag string) error {
	tags, err := s.Tags()
	if err != nil {
		return err
	}
	i := slices.Index(tags, tag)
	if i < 0 {
		return nil
	}
	tags = slices.Delete(tags, i, i+1)
	if err := s.SaveSettings(Record{SettingsTagsField: tags}); err != nil {
		return err
	}
	return s.cascadeTag(tag, "")
}

// cascadeTag rewrites (or, with new == "", removes) a tag string in every
// record of every collection with declared tag fields, tombstones
// included. Rewrites go through the normal Update path, so they are
// audited and notified like any other mutation.
func (s *Store) cascadeTag(old, new string) error {
	for _, c := range s.schema.colls {
		if len(c.tagFields) == 0 {
			continue
		}
		recs, err := s.Records(c, Query{IncludeTombstones: true})
		if err != nil {
			return err
		}
		for _, rec := range recs {
			patch := Record{}
			for _, field := range c.tagFields {
				if v, changed := substituteTag(rec[field], old, new); changed {
					patch[field] = v
				}
			}
			if len(patch) == 0 {
				continue
			}
			if err := s.Update(c, rec.ID(), patch); err != nil {
				return err
			}
		}
	}
	return nil
}

// substituteTag rewrites old to new inside a tag field value. List fields
// drop empty strings and duplicates, so a delete-cascade (new == "")
// removes the tag outright. A scalar string field is cleared to "" instead:
// merge updates cannot remove a field.
func substituteTag(v any, old, new string) (any, bool) {
	if str, ok := v.(string); ok {
		if str != old {
			return v, false
		}
		return new, true
	}
	list := stringList(v)
	if list == nil || !slices.Contains(list, old) {
		return v, false
	}
	out := make([]string, 0, len(list))
	for _, tag := range list {
		if tag == old {
			tag = new
		}
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out, true
}
