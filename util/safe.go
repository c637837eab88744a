package util

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// SafeErrors is a thread safe collection of errors
type SafeErrors struct {
	errs *multierror.Error
	m    sync.Mutex
}

// Append adds err to the collection. Nil errors are ignored.
func (s *SafeErrors) Append(err error) {
	if err == nil {
		return
	}
	s.m.Lock()
	s.errs = multierror.Append(s.errs, err)
	s.m.Unlock()
}

// Get the collected errors, nil if there are none
func (s *SafeErrors) Get() *multierror.Error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.errs == nil {
		return nil
	}
	copied := *s.errs
	copied.Errors = append([]error(nil), s.errs.Errors...)
	return &copied
}
