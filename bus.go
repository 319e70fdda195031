package docstore

import (
	"fmt"
	"runtime/debug"
	"slices"
)

// Action identifies the kind of a mutation, both in change notifications
// and in audit entries.
type Action string

const (
	ActionAdd     Action = "add"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionPurge   Action = "purge"
)

// Event describes a committed mutation. Record carries the resulting
// record for add/update/restore and is nil for delete/purge, where only
// the id remains meaningful.
type Event struct {
	Action     Action
	Collection string
	ID         string
	Record     Record
}

type subscription struct {
	fn func(ev Event)
}

// Subscribe registers fn for every committed mutation of c and returns the
// unsubscribe function. Delivery is synchronous, in subscription order,
// before the triggering mutation returns; keep callbacks cheap.
// Subscriptions are in-memory only and scoped to the process lifetime.
func (s *Store) Subscribe(c *Collection, fn func(ev Event)) func() {
	sub := &subscription{fn: fn}
	s.subsMu.Lock()
	s.subs[c.name] = append(s.subs[c.name], sub)
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		list := s.subs[c.name]
		if i := slices.Index(list, sub); i >= 0 {
			s.subs[c.name] = slices.Delete(list, i, i+1)
		}
	}
}

func (s *Store) publish(c *Collection, ev Event) {
	// Delivery goes to the subscriber list as it stood at publish time;
	// unsubscribing during the pass only affects future publishes.
	s.subsMu.Lock()
	list := slices.Clone(s.subs[c.name])
	s.subsMu.Unlock()

	for _, sub := range list {
		if err := safelyNotify(sub.fn, ev); err != nil {
			s.logf("store: NOTIFY.PANIC %s/%s: %v", c.name, ev.ID, err)
		}
	}
}

type panicked struct {
	reason interface{}
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", p.reason, p.stack)
}

func safelyNotify(fn func(ev Event), ev Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	fn(ev)
	return nil
}
