package window

// Store holds the ordered list of open windows.
//
// Store order is launch order and doubles as tiling order. It performs no
// validation; the controller is its only writer. A Store is not safe for
// concurrent use.
type Store struct {
	windows []Window
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// All returns a copy of every window in store order.
func (s *Store) All() []Window {
	out := make([]Window, len(s.windows))
	copy(out, s.windows)
	return out
}

// Len returns the number of open windows.
func (s *Store) Len() int {
	return len(s.windows)
}

// Lookup returns the window with the given id.
func (s *Store) Lookup(id ID) (Window, bool) {
	if i := s.index(id); i >= 0 {
		return s.windows[i], true
	}
	return Window{}, false
}

// ReplaceAll swaps the whole list in one step.
func (s *Store) ReplaceAll(windows []Window) {
	next := make([]Window, len(windows))
	copy(next, windows)
	s.windows = next
}

// ReplaceOne overwrites the record sharing w's id, keeping its position.
func (s *Store) ReplaceOne(w Window) bool {
	i := s.index(w.ID)
	if i < 0 {
		return false
	}
	s.windows[i] = w
	return true
}

// Append adds w at the end of the store order.
func (s *Store) Append(w Window) {
	s.windows = append(s.windows, w)
}

// Remove deletes the window with the given id.
func (s *Store) Remove(id ID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.windows = append(s.windows[:i:i], s.windows[i+1:]...)
	return true
}

func (s *Store) index(id ID) int {
	for i := range s.windows {
		if s.windows[i].ID == id {
			return i
		}
	}
	return -1
}
