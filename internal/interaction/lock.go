package interaction

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrLockHeld is returned when acquiring a lock someone else holds
	ErrLockHeld = errors.New("interaction lock already held")
	// ErrNotOwner is returned when releasing with a stale or foreign token
	ErrNotOwner = errors.New("interaction lock token does not own the lock")
	// ErrNotHeld is returned when releasing a free lock
	ErrNotHeld = errors.New("interaction lock not held")
)

// Token proves ownership of the lock. The zero Token owns nothing.
type Token struct {
	owner string
	gen   uint64
}

// Owner returns the name the token was acquired under
func (t Token) Owner() string {
	return t.owner
}

// Valid reports whether the token was ever issued
func (t Token) Valid() bool {
	return t.gen != 0
}

// Lock is the single process-wide interaction lock. While it is held the
// surrounding game suspends player movement. Only the holder of the current
// token can release it.
type Lock struct {
	mu     sync.Mutex
	holder Token
	gen    uint64

	// OnChange is called with the new state whenever the lock is taken or freed
	OnChange func(active bool)
}

// NewLock creates a free lock that reports changes to onChange (may be nil)
func NewLock(onChange func(active bool)) *Lock {
	return &Lock{OnChange: onChange}
}

// Acquire takes the lock for owner
func (l *Lock) Acquire(owner string) (Token, error) {
	l.mu.Lock()
	if l.holder.Valid() {
		holder := l.holder.owner
		l.mu.Unlock()
		return Token{}, fmt.Errorf("%s: %w by %s", owner, ErrLockHeld, holder)
	}
	l.gen++
	tok := Token{owner: owner, gen: l.gen}
	l.holder = tok
	cb := l.OnChange
	l.mu.Unlock()

	if cb != nil {
		cb(true)
	}
	return tok, nil
}

// Release frees the lock if tok is the current holder
func (l *Lock) Release(tok Token) error {
	l.mu.Lock()
	if !l.holder.Valid() {
		l.mu.Unlock()
		return ErrNotHeld
	}
	if tok != l.holder {
		holder := l.holder.owner
		l.mu.Unlock()
		return fmt.Errorf("%s: %w (held by %s)", tok.owner, ErrNotOwner, holder)
	}
	l.holder = Token{}
	cb := l.OnChange
	l.mu.Unlock()

	if cb != nil {
		cb(false)
	}
	return nil
}

// Active reports whether anyone holds the lock
func (l *Lock) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holder.Valid()
}

// Holder returns the current owner name, or "" when free
func (l *Lock) Holder() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holder.owner
}
