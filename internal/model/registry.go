package model

// Registry is the ID-indexed lookup for Person records. Analyzers resolve
// activity participant IDs through it instead of chasing object references.
type Registry struct {
	byID    map[string]*Person
	byEmail map[string]*Person
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*Person),
		byEmail: make(map[string]*Person),
	}
}

// Add registers a person. Re-adding an existing ID replaces the record but
// keeps its original position.
func (r *Registry) Add(p *Person) {
	if _, exists := r.byID[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
	if p.Email != "" {
		r.byEmail[p.Email] = p
	}
}

func (r *Registry) Get(id string) (*Person, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) ByEmail(email string) (*Person, bool) {
	p, ok := r.byEmail[email]
	return p, ok
}

// People returns all registered people in insertion order.
func (r *Registry) People() []*Person {
	out := make([]*Person, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.byID) }

// Participants resolves an activity's participant IDs, skipping IDs with no
// registered record.
func (r *Registry) Participants(a *Activity) []*Person {
	out := make([]*Person, 0, len(a.ParticipantIDs))
	for _, id := range a.ParticipantIDs {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
