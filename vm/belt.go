// This file is part of belt - https://github.com/db47h/belt
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// Belt is a fixed capacity rotating buffer that is always full. Pushing a
// value evicts the oldest one. Values are addressed by age: position 0 is the
// most recent push.
type Belt[T any] struct {
	start int
	slots []T
}

// NewBelt returns a belt of n zero values.
func NewBelt[T any](n int) *Belt[T] {
	if n <= 0 {
		panic("vm: belt capacity must be positive")
	}
	return &Belt[T]{slots: make([]T, n)}
}

// BeltOf returns a belt holding a copy of values, values[0] at position 0.
func BeltOf[T any](values ...T) *Belt[T] {
	b := NewBelt[T](len(values))
	copy(b.slots, values)
	return b
}

// Len returns the belt capacity.
func (b *Belt[T]) Len() int { return len(b.slots) }

// Push moves the head back one slot, wrapping, and stores v there.
func (b *Belt[T]) Push(v T) {
	if b.start == 0 {
		b.start = len(b.slots)
	}
	b.start--
	b.slots[b.start] = v
}

// Peek returns the value pushed i steps ago. i wraps modulo the capacity.
func (b *Belt[T]) Peek(i int) T {
	return b.slots[(b.start+i)%len(b.slots)]
}

// Values returns the belt contents ordered by age, most recent first.
func (b *Belt[T]) Values() []T {
	v := make([]T, len(b.slots))
	for i := range v {
		v[i] = b.Peek(i)
	}
	return v
}

// Clone returns an independent copy of b.
func (b *Belt[T]) Clone() *Belt[T] {
	c := &Belt[T]{start: b.start, slots: make([]T, len(b.slots))}
	copy(c.slots, b.slots)
	return c
}
