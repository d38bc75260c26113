// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

// entry is a node of the recency list. The front is the most recently
// used entry.
type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// list is an intrusive doubly linked recency list. It is not safe for
// concurrent use.
type list[K comparable, V any] struct {
	front, back *entry[K, V]
	len         int
}

func (l *list[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = l.front
	if l.front != nil {
		l.front.prev = e
	}
	l.front = e
	if l.back == nil {
		l.back = e
	}
	l.len++
}

func (l *list[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.back = e.prev
	}
	e.prev, e.next = nil, nil
	l.len--
}

func (l *list[K, V]) moveToFront(e *entry[K, V]) {
	if l.front == e {
		return
	}
	l.remove(e)
	l.pushFront(e)
}
