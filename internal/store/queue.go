package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/hoaivu016/abc-backoffice/internal/models"
)

// Queue is the durable pending-action log. Entries are appended while the
// remote store is unreachable and replayed in insertion order on the next
// sync cycle. Entries are removed individually once their delivery is
// confirmed; a failed entry stays for the next cycle.
type Queue struct {
	mu      sync.Mutex
	path    string
	entries []models.PendingAction
}

// OpenQueue loads the pending log from dir. A missing file is an empty
// queue.
func OpenQueue(dir string) (*Queue, error) {
	q := &Queue{path: filepath.Join(dir, KeyPendingSync+".json")}
	f, err := os.Open(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return q, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&q.entries); err != nil {
		return nil, err
	}
	return q, nil
}

// persist must be called with q.mu held.
func (q *Queue) persist() error {
	f, err := os.Create(q.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(q.entries)
}

// Enqueue appends one action to the log and persists it.
func (q *Queue) Enqueue(a models.PendingAction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, a)
	return q.persist()
}

// Drain returns a copy of the full log in replay order. It does not
// remove anything; callers confirm delivery per entry with Remove.
func (q *Queue) Drain() []models.PendingAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.PendingAction, len(q.entries))
	copy(out, q.entries)
	return out
}

// Remove deletes the entries with the given idempotency keys and persists.
func (q *Queue) Remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.entries[:0]
	for _, e := range q.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	return q.persist()
}

// Clear removes the log entirely.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return q.persist()
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
