// Package visitor keeps short-lived, single-read state per browser: the last
// submitted form, one flash message and the id of a just-admitted student.
package visitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FlashKind selects how a flash message is presented
type FlashKind string

const (
	FlashError   FlashKind = "error"
	FlashSuccess FlashKind = "success"
)

// Flash is a message shown on exactly one render
type Flash struct {
	Kind FlashKind
	Text string
}

// State is what a visitor carries between two requests
type State struct {
	Echo  map[string]string
	Flash *Flash
}

type entry struct {
	echo       map[string]string
	flash      *Flash
	newStudent int64
	expires    time.Time
}

// Store is an in-process map of visitor id to state
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

// NewStore returns a Store whose entries live for ttl after their last write
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// NewVisitorID returns a fresh opaque visitor id
func NewVisitorID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one issued by NewVisitorID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// get returns the live entry for id, creating it when create is set.
// Expired entries are swept on the way. Callers hold s.mu.
func (s *Store) get(id string, create bool) *entry {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	e, ok := s.entries[id]
	if !ok && create {
		e = &entry{}
		s.entries[id] = e
	}
	if e != nil && create {
		e.expires = now.Add(s.ttl)
	}
	return e
}

// SetEcho remembers the submitted form values
func (s *Store) SetEcho(id string, values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	s.get(id, true).echo = copied
}

// ClearEcho drops any remembered form values
func (s *Store) ClearEcho(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.get(id, false); e != nil {
		e.echo = nil
	}
}

// SetFlash replaces the pending flash message
func (s *Store) SetFlash(id string, kind FlashKind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id, true).flash = &Flash{Kind: kind, Text: text}
}

// Take returns and clears the echo and flash for id
func (s *Store) Take(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id, false)
	if e == nil {
		return State{}
	}
	st := State{Echo: e.echo, Flash: e.flash}
	e.echo = nil
	e.flash = nil
	s.dropIfEmpty(id, e)
	return st
}

// SetNewStudent records the student just admitted by this visitor
func (s *Store) SetNewStudent(id string, studentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id, true).newStudent = studentID
}

// TakeNewStudent returns and clears the just-admitted student id
func (s *Store) TakeNewStudent(id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id, false)
	if e == nil || e.newStudent == 0 {
		return 0, false
	}
	studentID := e.newStudent
	e.newStudent = 0
	s.dropIfEmpty(id, e)
	return studentID, true
}

// Len is the number of live entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get("", false)
	return len(s.entries)
}

func (s *Store) dropIfEmpty(id string, e *entry) {
	if e.echo == nil && e.flash == nil && e.newStudent == 0 {
		delete(s.entries, id)
	}
}
