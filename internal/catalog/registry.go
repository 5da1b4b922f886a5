package catalog

import "sync/atomic"

// Registry publishes catalog snapshots per project with atomic swap
// semantics. Readers get a consistent snapshot pointer without locking;
// writers replace the whole project map copy-on-write.
type Registry struct {
	current atomic.Pointer[map[string]*Snapshot]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(map[string]*Snapshot)
	r.current.Store(&empty)
	return r
}

// Snapshot returns the current snapshot for a project, if published.
// The returned snapshot stays valid for the caller's whole compilation
// even if a newer version is published meanwhile.
func (r *Registry) Snapshot(project string) (*Snapshot, bool) {
	m := *r.current.Load()
	s, ok := m[project]
	return s, ok
}

// Publish atomically replaces a project's snapshot. In-flight readers of
// the previous snapshot are unaffected.
func (r *Registry) Publish(project string, snap *Snapshot) {
	for {
		old := r.current.Load()
		next := make(map[string]*Snapshot, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[project] = snap
		if r.current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Drop atomically removes a project's snapshot.
func (r *Registry) Drop(project string) {
	for {
		old := r.current.Load()
		if _, ok := (*old)[project]; !ok {
			return
		}
		next := make(map[string]*Snapshot, len(*old))
		for k, v := range *old {
			if k != project {
				next[k] = v
			}
		}
		if r.current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Projects returns the published project names, unordered.
func (r *Registry) Projects() []string {
	m := *r.current.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
