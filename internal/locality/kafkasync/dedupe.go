package kafkasync

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// revisions remembers the newest applied revision per locality name.
type revisions struct {
	mu  sync.Mutex
	lru *lru.Cache[string, uint64]
}

func newRevisions(size int) *revisions {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, uint64](size)
	return &revisions{lru: c}
}

// stale reports whether rev is not newer than the last applied revision.
func (d *revisions) stale(name string, rev uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.lru.Get(name)
	return ok && rev <= last
}

func (d *revisions) mark(name string, rev uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.lru.Get(name); ok && last >= rev {
		return
	}
	d.lru.Add(name, rev)
}
