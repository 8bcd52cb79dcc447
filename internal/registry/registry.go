// Package registry provides a small concurrent name-to-value registry used
// for the action catalog, specialist handles and broker topics.
package registry

import "github.com/alphadose/haxmap"

// Registry maps names to values of type T. All operations are safe for
// concurrent use.
type Registry[T any] interface {
	Get(name string) (T, bool)
	Add(name string, value T)
	// GetOrAdd returns the existing value for name, or stores and returns
	// the value produced by the constructor. The second result is true
	// when the value already existed.
	GetOrAdd(name string, value func() T) (T, bool)
	Del(name string)
	Keys() []string
	Len() int
}

type registry[T any] struct {
	values *haxmap.Map[string, T]
}

func New[T any]() Registry[T] {
	return &registry[T]{
		values: haxmap.New[string, T](),
	}
}

func (r *registry[T]) Get(name string) (T, bool) {
	return r.values.Get(name)
}

func (r *registry[T]) Add(name string, value T) {
	r.values.Set(name, value)
}

func (r *registry[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	return r.values.GetOrCompute(name, valueFn)
}

func (r *registry[T]) Del(name string) {
	r.values.Del(name)
}

func (r *registry[T]) Keys() []string {
	keys := make([]string, 0, int(r.values.Len()))
	r.values.ForEach(func(key string, _ T) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (r *registry[T]) Len() int {
	return int(r.values.Len())
}
