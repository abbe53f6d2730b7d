// Package collector turns a submitted form into an insertion record, records
// it in the insertion log and prepares the request body.
package collector

import (
	"sync/atomic"
	"time"

	"github.com/studiowebux/treeplot/internal/types"
)

// Submission is everything the dispatcher needs for one insertion
type Submission struct {
	Seq      uint64
	Record   types.InsertionRecord
	Entry    types.LogEntry
	Body     string
	Endpoint string
	// Focus names the field that should receive input focus after the form
	// is reset, or "" to leave focus alone
	Focus string
}

// Collector builds submissions and keeps the insertion log
type Collector struct {
	log *InsertionLog
	seq atomic.Uint64
	now func() time.Time
}

// New creates a collector writing to log
func New(log *InsertionLog) *Collector {
	return &Collector{log: log, now: time.Now}
}

// Log returns the insertion log
func (c *Collector) Log() *InsertionLog {
	return c.log
}

// Collect parses the fields of the active form. The log entry is written
// before anything is sent.
func (c *Collector) Collect(mode types.Mode, fields map[string]string) Submission {
	record := Record(mode, fields)
	seq := c.seq.Add(1)

	params := record.Params()
	display := make([]string, 0, len(params))
	for _, p := range params {
		display = append(display, p.Value.Display())
	}

	entry := types.LogEntry{
		Seq:    seq,
		Mode:   mode,
		Text:   record.Describe(),
		Fields: display,
		At:     c.now(),
	}
	c.log.Prepend(entry)

	sub := Submission{
		Seq:      seq,
		Record:   record,
		Entry:    entry,
		Body:     types.EncodeParams(params),
		Endpoint: mode.Endpoint(),
	}
	if mode == types.ModeRedBlackTree {
		sub.Focus = "k"
	}
	return sub
}

// Record parses form fields into the record variant for mode
func Record(mode types.Mode, fields map[string]string) types.InsertionRecord {
	if mode == types.ModeRangeTree {
		return types.PointInsertion{
			X: types.ParseValue(fields["x"]),
			Y: types.ParseValue(fields["y"]),
		}
	}
	return types.KeyInsertion{K: types.ParseValue(fields["k"])}
}
