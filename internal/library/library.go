// Package library owns the loaded document and its derived search index,
// reloading both wholesale when the source changes.
package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/search"
)

// Snapshot is one loaded generation of the document. Snapshots are never
// mutated after publication.
type Snapshot struct {
	Doc      *document.Tree
	Index    []search.Record
	Fallback bool // the embedded sample is being shown
	Version  int
	LoadedAt time.Time
}

// Library holds the current Snapshot and fans out reloads to subscribers.
type Library struct {
	src document.Source
	log *slog.Logger

	mu      sync.RWMutex
	cur     *Snapshot
	version int

	subMu sync.Mutex
	subs  map[chan *Snapshot]struct{}
}

// New creates a library reading from src. A nil src serves the embedded
// sample document.
func New(src document.Source, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{src: src, log: log, subs: make(map[chan *Snapshot]struct{})}
}

// Source returns the document source.
func (l *Library) Source() document.Source { return l.src }

// Load fetches and parses the document, rebuilds the search index and
// publishes the result. It never fails: a broken source yields the sample on
// the first load, and keeps the current snapshot on later ones.
func (l *Library) Load(ctx context.Context) *Snapshot {
	doc, fallback := document.Load(ctx, l.src, l.log)

	l.mu.Lock()
	if fallback && l.cur != nil {
		cur := l.cur
		l.mu.Unlock()
		l.log.Warn("reload failed, keeping current document", "version", cur.Version, "fallback", cur.Fallback)
		return cur
	}
	index := search.BuildIndex(doc)
	l.version++
	snap := &Snapshot{
		Doc:      doc,
		Index:    index,
		Fallback: fallback,
		Version:  l.version,
		LoadedAt: time.Now().UTC(),
	}
	l.cur = snap
	l.mu.Unlock()

	l.log.Info("document loaded",
		"sections", len(doc.Sections),
		"records", len(index),
		"fallback", fallback,
		"version", snap.Version,
	)
	l.notify(snap)
	return snap
}

// Current returns the latest snapshot, loading one first if needed.
func (l *Library) Current() *Snapshot {
	l.mu.RLock()
	cur := l.cur
	l.mu.RUnlock()
	if cur != nil {
		return cur
	}
	return l.Load(context.Background())
}

// Subscribe returns a channel receiving every newly published snapshot and
// a function that ends the subscription. A slow subscriber only ever sees
// the latest snapshot.
func (l *Library) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)
	l.subMu.Lock()
	l.subs[ch] = struct{}{}
	l.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, ch)
			l.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (l *Library) Subscribers() int {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	return len(l.subs)
}

func (l *Library) notify(snap *Snapshot) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for ch := range l.subs {
		// Replace a snapshot the subscriber has not picked up yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
