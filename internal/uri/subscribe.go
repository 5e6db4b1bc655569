package uri

// Subscription tracks a live URI query. Its resolution is recomputed, and
// onChange invoked, whenever an edge that contributed to the current
// resolution reports a membership change (section 4.C.4 "Reactivity").
// Intermediate results are not independently cached beyond the current
// subscription set; each change recomputes the whole path.
type Subscription struct {
	resolver *Resolver
	focus    *Focus
	path     string
	onChange func([]Ref)

	unsubs []func()
}

// Subscribe resolves path once and rewires its edge subscriptions so future
// membership changes along the path re-trigger resolution.
func (r *Resolver) Subscribe(focus *Focus, path string, onChange func([]Ref)) *Subscription {
	s := &Subscription{resolver: r, focus: focus, path: path, onChange: onChange}
	s.rewire()
	return s
}

func (s *Subscription) rewire() []Ref {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil

	refs, touched := s.resolver.resolveTracked(s.focus, s.path)
	for _, dep := range touched {
		s.unsubs = append(s.unsubs, dep.Subscribe(s.fire))
	}
	return refs
}

func (s *Subscription) fire() {
	refs := s.rewire()
	if s.onChange != nil {
		s.onChange(refs)
	}
}

// Unsubscribe stops all underlying edge subscriptions.
func (s *Subscription) Unsubscribe() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
}

