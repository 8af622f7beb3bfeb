package pinscroll

// Scope ties a group of ranges to the lifetime of the code that created
// them, typically one page section:
//
//	scope := engine.Scope()
//	defer scope.Release()
//	scope.Register(pinscroll.Range{...})
//
// Release unregisters every range the scope registered, releasing their
// timelines and pins, on every exit path.
type Scope struct {
	engine   *Engine
	ids      []RangeID
	released bool
}

// Scope creates an empty scope bound to the engine.
func (e *Engine) Scope() *Scope {
	return &Scope{engine: e}
}

// Register registers r on the engine and records it for Release.
func (s *Scope) Register(r Range) (RangeID, error) {
	if s.released {
		return 0, &RegistrationError{Name: r.Name, Start: r.Start, End: r.End, Err: ErrEngineClosed}
	}
	id, err := s.engine.Register(r)
	if err != nil {
		return 0, err
	}
	s.ids = append(s.ids, id)
	return id, nil
}

// IDs returns the ranges registered through the scope.
func (s *Scope) IDs() []RangeID {
	return s.ids
}

// Release unregisters every range of the scope. Safe to call repeatedly.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.ids) - 1; i >= 0; i-- {
		s.engine.Unregister(s.ids[i])
	}
	s.ids = nil
}
