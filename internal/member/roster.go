package member

// Roster is the set of other member names a participant believes share its
// room. With N pre-existing members a newcomer receives up to N reports and
// takes the union, so merging is accretive and idempotent; identical names
// collapse by set semantics.
type Roster struct {
	names []string
	seen  map[string]struct{}
}

// NewRoster constructs an empty roster.
func NewRoster() *Roster {
	return &Roster{seen: make(map[string]struct{})}
}

// Merge folds one peer's reported roster plus the reporter itself into the
// view. Re-delivering the same report only ever adds; nothing is removed.
func (r *Roster) Merge(reported []string, reporter string) {
	for _, name := range reported {
		r.add(name)
	}
	r.add(reporter)
}

func (r *Roster) add(name string) {
	if name == "" {
		return
	}
	if _, ok := r.seen[name]; ok {
		return
	}
	r.seen[name] = struct{}{}
	r.names = append(r.names, name)
}

// Remove drops a departed member's name.
func (r *Roster) Remove(name string) {
	if _, ok := r.seen[name]; !ok {
		return
	}
	delete(r.seen, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			return
		}
	}
}

// Names returns the roster in first-seen order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.names)
}
