package world

// OverrideReadFile swaps the disk read used by the store. Tests use it
// to count accesses and to simulate changing failure causes.
func (s *Store) OverrideReadFile(fn func(path string) ([]byte, error)) {
	s.readFile = fn
}
