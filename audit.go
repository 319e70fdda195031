package docstore

// Audit entry fields, beyond the reserved record fields. createdAt doubles
// as the entry timestamp.
const (
	AuditFieldAction     = "action"
	AuditFieldCollection = "collection"
	AuditFieldEntityID   = "entityId"
	AuditFieldActor      = "actor"
	AuditFieldBefore     = "before"
	AuditFieldAfter      = "after"
)

// recordAudit appends an immutable entry describing a committed mutation
// to the audit collection. Mutations of the audit collection itself are
// not audited, which is what keeps this from recursing. A failed audit
// write is logged and swallowed: audit is advisory, never a reason to
// fail the mutation it describes.
func (s *Store) recordAudit(c *Collection, action Action, id string, before, after Record) {
	if c == s.schema.audit {
		return
	}

	entry := Record{
		AuditFieldAction:     string(action),
		AuditFieldCollection: c.name,
		AuditFieldEntityID:   id,
		AuditFieldActor:      s.Actor(),
	}
	if before != nil {
		entry[AuditFieldBefore] = map[string]any(before.Clone())
	}
	if after != nil {
		entry[AuditFieldAfter] = map[string]any(after.Clone())
	}
	entry = s.normalizeCreate(entry)

	err := s.writeTx("audit", AuditCollectionName, func(tx storageTx) error {
		return s.putRecord(tx, s.schema.audit, nil, entry)
	})
	if err != nil {
		s.logf("store: AUDIT.FAIL %s %s/%s: %v", action, c.name, id, err)
		return
	}
	if s.verbose {
		s.logf("store: AUDIT %s %s/%s", action, c.name, id)
	}

	// Live audit views still get notified; only the audit append itself
	// is exempt from auditing.
	s.publish(s.schema.audit, Event{
		Action:     ActionAdd,
		Collection: AuditCollectionName,
		ID:         entry.ID(),
		Record:     entry,
	})
}

// AuditEntries returns the audit trail in append order.
func (s *Store) AuditEntries() ([]Record, error) {
	return s.All(s.schema.audit)
}
