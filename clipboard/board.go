// Package clipboard holds process-local copy buffers and the paste executor.
//
// Copying always deep-clones, so later document edits cannot alias into a
// stored entry. Pasting works on a clone of the target document; the caller
// only ever receives a fully built new root, or the untouched original with
// an error.
package clipboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	se "github.com/reoring/schemaedit"
)

// DefaultCapacity is the number of entries a Board keeps by default.
const DefaultCapacity = 20

// Entry is one copied subtree.
type Entry struct {
	ID         string
	SourcePath string
	Data       any
	Schema     se.Node
	SchemaName string
	Label      string
	Timestamp  time.Time
}

// Board is a bounded, newest-first list of entries. It is safe for
// concurrent use.
type Board struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
	newID    func() string
}

// Option configures a Board.
type Option func(*Board)

// WithCapacity bounds the number of retained entries (minimum 1).
func WithCapacity(n int) Option {
	return func(b *Board) {
		if n < 1 {
			n = 1
		}
		b.capacity = n
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithIDGenerator replaces the entry ID source.
func WithIDGenerator(gen func() string) Option {
	return func(b *Board) { b.newID = gen }
}

// NewBoard returns an empty Board.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Copy snapshots data found at path under schema and returns the stored entry.
func (b *Board) Copy(path string, data any, schema se.Node, schemaName string) Entry {
	path = se.NormalizePath(path)
	e := Entry{
		ID:         b.newID(),
		SourcePath: path,
		Data:       se.Clone(data),
		Schema:     schema,
		SchemaName: schemaName,
		Label:      Label(path),
		Timestamp:  b.now(),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append([]Entry{e}, b.entries...)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}
	return e.clone()
}

// CopyAt resolves path in doc and copies what it finds there.
func (b *Board) CopyAt(root se.Node, doc any, path string, schemaName string, sel *se.VariantSelections) (Entry, error) {
	p := se.ParsePath(path)
	loc := se.Resolve(root, doc, p, sel)
	if loc.BasePath != p.String() {
		return Entry{}, se.Issues{se.IssueAt(p.String(), se.CodeUnresolvedPath, map[string]any{"resolved": loc.BasePath})}
	}
	schema := loc.Schema
	if eff := se.EffectiveSchema(loc, sel); eff != nil {
		schema = eff
	}
	return b.Copy(loc.BasePath, loc.Value, schema, schemaName), nil
}

// Latest returns the newest entry.
func (b *Board) Latest() (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[0].clone(), true
}

// Get returns the entry with the given ID.
func (b *Board) Get(id string) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.ID == id {
			return e.clone(), true
		}
	}
	return Entry{}, false
}

// List returns all entries, newest first.
func (b *Board) List() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.clone()
	}
	return out
}

// Len reports the number of entries.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear drops all entries.
func (b *Board) Clear() {
	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}

func (e Entry) clone() Entry {
	e.Data = se.Clone(e.Data)
	return e
}

// Label names an entry after the last segment of its source path, keeping
// the item index for array items: "city", "items[2]", or "root".
func Label(path string) string {
	p := se.ParsePath(path)
	if len(p) == 0 {
		return "root"
	}
	last := p[len(p)-1]
	if !last.IsIndex {
		return last.Key
	}
	// walk back to the nearest key for "items[2]" or "matrix[0][1]"
	i := len(p) - 1
	for i >= 0 && p[i].IsIndex {
		i--
	}
	if i < 0 {
		return p.String()
	}
	return p[i:].String()
}
