package store

import (
	"os"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Remove deletes a stored file and invalidates cached listings.
func (s *Store) Remove(name string) error {
	full, err := s.Resolve(name)
	if err != nil {
		return err
	}
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return ErrNotFound
	}
	if err := os.Remove(full); err != nil {
		return err
	}
	s.invalidate()

	return nil
}
