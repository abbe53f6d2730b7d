package collector

import (
	"strings"
	"sync"

	"github.com/studiowebux/treeplot/internal/types"
)

// InsertionLog is the on-screen insertion history, most recent first.
// Entries are only ever added.
type InsertionLog struct {
	mu      sync.RWMutex
	entries []types.LogEntry
}

// NewInsertionLog creates an empty log
func NewInsertionLog() *InsertionLog {
	return &InsertionLog{}
}

// Prepend adds e in front of all existing entries
func (l *InsertionLog) Prepend(e types.LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]types.LogEntry{e}, l.entries...)
}

// Entries returns a copy of the log, most recent first
func (l *InsertionLog) Entries() []types.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *InsertionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// String renders the log one entry per line, in display order
func (l *InsertionLog) String() string {
	entries := l.Entries()
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strings.Join(e.Fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
