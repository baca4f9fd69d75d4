package tui

// State tracks prefilled values and server-provided errors keyed by field
// name. Higher-level orchestration lives in the renderer.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	values := make(map[string]any, len(prefill))
	for k, v := range prefill {
		values[k] = v
	}
	errors := make(map[string][]string, len(errs))
	for k, v := range errs {
		errors[k] = append([]string(nil), v...)
	}
	return &State{values: values, errors: errors}
}

// ErrorsFor returns the errors attached to a field.
func (s *State) ErrorsFor(name string) []string {
	if s == nil {
		return nil
	}
	return s.errors[name]
}

// Value returns the prefilled or collected value of a field.
func (s *State) Value(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return value, ok
}

// SetValue records a collected value and clears its errors.
func (s *State) SetValue(name string, value any) {
	if s == nil {
		return
	}
	s.values[name] = value
	delete(s.errors, name)
}
