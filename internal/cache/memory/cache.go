package memory

import "sync"

// Store - простой in-memory кеш на время жизни процесса.
// Без TTL и вытеснения: записи живут до явного Clear, последняя запись
// по ключу выигрывает. Staleness здесь осознанная: цены в рамках одной
// сессии считаются неизменными.
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func New[V any]() *Store[V] {
	return &Store[V]{items: make(map[string]V)}
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.items = make(map[string]V)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
