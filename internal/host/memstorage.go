package host

import (
	"sort"
	"strings"
)

// MemStorage is an in-memory Storage for the simulator and tests.
type MemStorage struct {
	m map[string][]byte
}

// NewMemStorage returns an empty in-memory store.
func NewMemStorage() *MemStorage {
	return &MemStorage{m: make(map[string][]byte)}
}

func (s *MemStorage) Get(key string) ([]byte, bool, error) {
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemStorage) Set(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.m[key] = v
	return nil
}

func (s *MemStorage) Delete(key string) error {
	delete(s.m, key)
	return nil
}

func (s *MemStorage) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
