package hunt

import "errors"

var errWriteFailed = errors.New("write failed")

// memStorage is an in-memory Storage for tests. failWrites simulates a
// persistence layer that rejects all writes (quota exceeded).
type memStorage struct {
	m          map[string]string
	failWrites bool
}

func newMemStorage() *memStorage {
	return &memStorage{m: make(map[string]string)}
}

func (s *memStorage) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStorage) Set(key, value string) error {
	if s.failWrites {
		return errWriteFailed
	}
	s.m[key] = value
	return nil
}

func (s *memStorage) Remove(key string) error {
	if s.failWrites {
		return errWriteFailed
	}
	delete(s.m, key)
	return nil
}
