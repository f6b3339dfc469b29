package services

import "sync"

// keyedMutex serializes work per key. Entries are dropped once no goroutine holds them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.RWMutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) acquire(key string) *keyedLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *keyedMutex) release(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Lock acquires the lock for key exclusively and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	l := k.acquire(key)
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.release(key, l)
	}
}

// RLock acquires the lock for key in shared mode and returns its release func.
func (k *keyedMutex) RLock(key string) func() {
	l := k.acquire(key)
	l.mu.RLock()
	return func() {
		l.mu.RUnlock()
		k.release(key, l)
	}
}

// DriveLocks orders drive writes against registrations for the same drive.
// Submits hold a drive in shared mode; update, close and delete hold it exclusively.
// The drive and registration services must share one instance.
type DriveLocks struct {
	keys *keyedMutex
}

// NewDriveLocks creates an empty DriveLocks
func NewDriveLocks() *DriveLocks {
	return &DriveLocks{keys: newKeyedMutex()}
}

func (d *DriveLocks) write(driveID string) func() { return d.keys.Lock(driveID) }

func (d *DriveLocks) read(driveID string) func() { return d.keys.RLock(driveID) }

func driveLocksOrNew(locks *DriveLocks) *DriveLocks {
	if locks == nil {
		return NewDriveLocks()
	}
	return locks
}
