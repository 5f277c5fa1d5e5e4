// Package memory holds an in-process key/value store used by tests and by
// callers that do not need durability.
package memory

import (
	"context"
	"sort"
	"sync"
)

type KV struct {
	mu        sync.RWMutex
	values    map[string][]byte
	readErr   error
	writeErr  error
	writeHook func(key string)
}

func NewKV() *KV {
	return &KV{values: map[string][]byte{}}
}

// FailReads makes every subsequent Get return err. Pass nil to reset.
func (s *KV) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes every subsequent Set and Delete return err. Pass nil to
// reset.
func (s *KV) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// OnWrite registers fn to run after each successful Set.
func (s *KV) OnWrite(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeHook = fn
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, false, s.readErr
	}

	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.writeErr != nil {
		err := s.writeErr
		s.mu.Unlock()
		return err
	}
	s.values[key] = append([]byte(nil), value...)
	hook := s.writeHook
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.values, key)
	return nil
}

func (s *KV) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
