package feed

import "Folio/internal/core/posts"

// Stack is the ranked working set of one feed session.
// It holds at most its capacity and never holds the same id twice.
type Stack struct {
	items    []*posts.Post
	capacity int
}

// NewStack creates an empty stack
func NewStack(capacity int) *Stack {
	return &Stack{capacity: capacity, items: make([]*posts.Post, 0, capacity)}
}

// Len returns the number of held candidates
func (s *Stack) Len() int {
	return len(s.items)
}

// Capacity returns the maximum number of held candidates
func (s *Stack) Capacity() int {
	return s.capacity
}

// Free returns how many candidates a refill may add
func (s *Stack) Free() int {
	return s.capacity - len(s.items)
}

// At returns the candidate at rank i
func (s *Stack) At(i int) *posts.Post {
	return s.items[i]
}

// IDs returns the held candidate ids in rank order
func (s *Stack) IDs() []string {
	ids := make([]string, 0, len(s.items))
	for _, p := range s.items {
		ids = append(ids, p.ID)
	}
	return ids
}

// Contains reports whether id is held
func (s *Stack) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Append adds candidates below the current ones, skipping held ids and
// stopping at capacity. It returns the candidates actually added.
func (s *Stack) Append(candidates ...*posts.Post) []*posts.Post {
	var added []*posts.Post
	for _, p := range candidates {
		if len(s.items) >= s.capacity {
			break
		}
		if p == nil || s.Contains(p.ID) {
			continue
		}
		s.items = append(s.items, p)
		added = append(added, p)
	}
	return added
}

// Remove drops id from the stack and reports whether it was held
func (s *Stack) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Stack) indexOf(id string) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
