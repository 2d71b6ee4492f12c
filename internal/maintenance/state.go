// Package maintenance holds the process-wide maintenance flag. It is not persisted and
// resets to disabled on restart.
package maintenance

import (
	"sync"
	"time"
)

const DefaultMessage = "We are performing scheduled maintenance. Please check back soon."

// Status is the JSON view of the flag.
type Status struct {
	Enabled   bool      `json:"enabled"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// State is constructed once in main and shared by the access gate and the handlers.
type State struct {
	mu     sync.RWMutex
	status Status
}

func NewState() *State {
	return &State{status: Status{Message: DefaultMessage}}
}

// Snapshot is read by the access gate on every request.
func (s *State) Snapshot() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status.Enabled, s.status.Message
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Set updates the flag. An empty message keeps the previous one.
func (s *State) Set(enabled bool, message, by string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Enabled = enabled
	if message != "" {
		s.status.Message = message
	}
	s.status.UpdatedAt = time.Now().UTC()
	s.status.UpdatedBy = by
	return s.status
}
