package workspace

import (
	"context"
	"fmt"
	"sync"
)

// Writer persists module text.
type Writer interface {
	Write(ctx context.Context, path, text string) error
}

type buffer struct {
	text  string
	dirty bool
}

// Buffers is a registry of modules held open in memory. It is safe for
// concurrent use.
type Buffers struct {
	mu      sync.RWMutex
	open    map[string]*buffer
	backing Writer
}

// NewBuffers creates a registry that saves through w.
func NewBuffers(w Writer) *Buffers {
	return &Buffers{open: make(map[string]*buffer), backing: w}
}

// Open registers path with its current text. Reopening discards edits.
func (b *Buffers) Open(path, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open[path] = &buffer{text: text}
}

// Close drops path from the registry.
func (b *Buffers) Close(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.open, path)
}

// Update replaces the buffered text of an open module and marks it unsaved.
func (b *Buffers) Update(path, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.open[path]
	if !ok {
		return fmt.Errorf("buffer %s is not open", path)
	}
	buf.text = text
	buf.dirty = true
	return nil
}

// Text returns the buffered text of path.
func (b *Buffers) Text(path string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	buf, ok := b.open[path]
	if !ok {
		return "", false
	}
	return buf.text, true
}

// IsOpen reports whether path is registered.
func (b *Buffers) IsOpen(path string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.open[path]
	return ok
}

// IsDirty reports whether path is open with unsaved changes.
func (b *Buffers) IsDirty(path string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	buf, ok := b.open[path]
	return ok && buf.dirty
}

// Save writes the buffered text of path and clears its unsaved flag.
func (b *Buffers) Save(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.open[path]
	if !ok {
		return fmt.Errorf("buffer %s is not open", path)
	}
	if err := b.backing.Write(ctx, path, buf.text); err != nil {
		return err
	}
	buf.dirty = false
	return nil
}
