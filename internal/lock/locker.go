// Package lock serializes ledger writes per group.
package lock

import (
	"context"
	"sync"
)

// GroupLocker grants exclusive access to one group's ledger.
//
// Lock blocks until the group is free or ctx is done. The returned unlock func must
// be called exactly once.
type GroupLocker interface {
	Lock(ctx context.Context, groupID string) (func(), error)
}

// LocalLocker is an in-process GroupLocker: one mutex per group, created on first use
// and dropped when no goroutine holds or waits for it.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*groupLock
}

type groupLock struct {
	ch   chan struct{} // holds one token while the group is locked
	refs int
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*groupLock)}
}

// Lock acquires the group's mutex.
func (l *LocalLocker) Lock(ctx context.Context, groupID string) (func(), error) {
	l.mu.Lock()
	gl, ok := l.locks[groupID]
	if !ok {
		gl = &groupLock{ch: make(chan struct{}, 1)}
		l.locks[groupID] = gl
	}
	gl.refs++
	l.mu.Unlock()

	select {
	case gl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(groupID, gl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-gl.ch
			l.release(groupID, gl)
		})
	}, nil
}

func (l *LocalLocker) release(groupID string, gl *groupLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gl.refs--
	if gl.refs == 0 {
		delete(l.locks, groupID)
	}
}
