package platform

import "sync"

// Token identifies an owner reserved in a Registry before its handle exists.
type Token uintptr

// Registry maps native handles to their owners.
//
// Owners are reserved under a Token before creation, the token travels with
// CreateParams, and the class dispatcher attaches the new handle when the
// backend reports MessageCreate.
type Registry[T any] struct {
	mu      sync.Mutex
	next    Token
	pending map[Token]T
	bound   map[Handle]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		pending: make(map[Token]T),
		bound:   make(map[Handle]T),
	}
}

// Reserve records owner and returns the token that identifies it. Tokens are never zero.
func (r *Registry[T]) Reserve(owner T) Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.pending[r.next] = owner
	return r.next
}

// Attach binds h to the owner reserved under tok.
func (r *Registry[T]) Attach(tok Token, h Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.pending[tok]
	if !ok || h == 0 {
		var zero T
		return zero, false
	}
	delete(r.pending, tok)
	r.bound[h] = owner
	return owner, true
}

// Bind associates h with owner directly, dropping any reservation for tok.
func (r *Registry[T]) Bind(tok Token, h Handle, owner T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, tok)
	if h != 0 {
		r.bound[h] = owner
	}
}

// Cancel drops a reservation that never got a handle.
func (r *Registry[T]) Cancel(tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, tok)
}

func (r *Registry[T]) Lookup(h Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.bound[h]
	return owner, ok
}

func (r *Registry[T]) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bound, h)
}

// Len returns the number of bound handles.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bound)
}
