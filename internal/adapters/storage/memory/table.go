package memory

import (
	"sort"
	"strings"
	"sync"

	"vetcare-api/internal/platform/apperr"
)

// table es el map protegido que comparten todos los repos en memoria.
type table[T any] struct {
	mu   sync.RWMutex
	byID map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{byID: make(map[string]T)}
}

func (t *table[T]) insert(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("id required")
	}
	if _, exists := t.byID[id]; exists {
		return apperr.ErrDuplicate
	}
	t.byID[id] = v
	return nil
}

func (t *table[T]) replace(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byID[id]; !exists {
		return apperr.ErrRecordNotFound
	}
	t.byID[id] = v
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, apperr.ErrRecordNotFound
	}
	return v, nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byID[id]; !exists {
		return apperr.ErrRecordNotFound
	}
	delete(t.byID, id)
	return nil
}

// update aplica fn bajo el lock de escritura; fn devuelve false si no hay cambio.
func (t *table[T]) update(id string, fn func(v *T) bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.byID[id]
	if !ok {
		return false, apperr.ErrRecordNotFound
	}
	if !fn(&v) {
		return false, nil
	}
	t.byID[id] = v
	return true, nil
}

// find devuelve el primer elemento que cumple keep.
func (t *table[T]) find(keep func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.byID {
		if keep(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// list filtra y ordena con less (orden estable para dev y tests).
func (t *table[T]) list(keep func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0)
	for _, v := range t.byID {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	t.mu.RUnlock()

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// removeWhere borra lo que cumple match y devuelve los ids borrados.
func (t *table[T]) removeWhere(match func(T) bool) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0)
	for id, v := range t.byID {
		if match(v) {
			delete(t.byID, id)
			ids = append(ids, id)
		}
	}
	return ids
}

// updateWhere aplica fn a todo lo que cumple match.
func (t *table[T]) updateWhere(match func(T) bool, fn func(v *T)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.byID {
		if match(v) {
			fn(&v)
			t.byID[id] = v
		}
	}
}
