package controller

import "sync"

// Navigator is the capability to move the visitor to a new location
type Navigator interface {
	Navigate(location string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(location string)

func (f NavigatorFunc) Navigate(location string) { f(location) }

// History is a Navigator that records every location it was sent to
type History struct {
	mu      sync.Mutex
	entries []string
}

func (h *History) Navigate(location string) {
	h.mu.Lock()
	h.entries = append(h.entries, location)
	h.mu.Unlock()
}

// Current returns the last location, or "" if none was recorded
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of all recorded locations
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
