// Package editor removes functions from assembly modules.
package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"asmcut/internal/asm"
)

// ContentProvider reads and writes whole module texts.
type ContentProvider interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, text string) error
}

// BufferRegistry tracks modules that are open for editing. An open buffer
// holds the current text of its module, including unsaved edits.
type BufferRegistry interface {
	Text(path string) (string, bool)
	IsDirty(path string) bool
	Update(path, text string) error
	Save(ctx context.Context, path string) error
}

var blankRun = regexp.MustCompile(`(?:\r\n|\r|\n){3,}`)

// NormalizeBlankLines collapses every run of three or more line breaks into
// two, leaving at most one blank line.
func NormalizeBlankLines(text string) string {
	nl := asm.DetectNewline(text)
	return blankRun.ReplaceAllLiteralString(text, nl+nl)
}

// RemoveFunction deletes the first occurrence of the named function's text
// from text and normalizes the blank lines left behind. The function is
// located with asm.Resolve; asm.ErrNotFound is returned when it cannot be.
func RemoveFunction(text, name string) (string, asm.FunctionRecord, error) {
	rec, err := asm.Locate(text, name)
	if err != nil {
		return "", asm.FunctionRecord{}, err
	}
	i := strings.Index(text, rec.Code)
	if i < 0 {
		// mixed line terminators inside the function
		return "", rec, fmt.Errorf("%w: text of %s does not occur verbatim", asm.ErrNotFound, name)
	}
	out := text[:i] + text[i+len(rec.Code):]
	return NormalizeBlankLines(out), rec, nil
}

// Result describes one removal.
type Result struct {
	Path    string
	Removed asm.FunctionRecord
	Before  string
	After   string
	// Saved is set when an open buffer for Path adopted the result and was saved.
	Saved bool
}

// Editor applies removals to modules held by a ContentProvider. It does not
// serialize concurrent edits of the same module.
type Editor struct {
	content ContentProvider
	buffers BufferRegistry
	logger  *slog.Logger
}

// New creates an Editor. buffers and logger may be nil.
func New(content ContentProvider, buffers BufferRegistry, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{content: content, buffers: buffers, logger: logger}
}

// Plan computes the removal of name from the module at path without writing.
func (e *Editor) Plan(ctx context.Context, path, name string) (Result, error) {
	before, err := e.current(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	after, rec, err := RemoveFunction(before, name)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return Result{Path: path, Removed: rec, Before: before, After: after}, nil
}

// current returns the text of an open buffer for path, or the stored module.
func (e *Editor) current(ctx context.Context, path string) (string, error) {
	if e.buffers != nil {
		if text, ok := e.buffers.Text(path); ok {
			return text, nil
		}
	}
	return e.content.Read(ctx, path)
}

// Remove deletes name from the module at path and writes the result back.
// When the module is open in the buffer registry the removal starts from the
// buffered text; the buffer then adopts the result and is saved if dirty.
func (e *Editor) Remove(ctx context.Context, path, name string) (Result, error) {
	res, err := e.Plan(ctx, path, name)
	if err != nil {
		return Result{}, err
	}
	if err := e.content.Write(ctx, path, res.After); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	e.logger.Debug("Removed function",
		"path", path,
		"function", name,
		"start", res.Removed.StartLine,
		"end", res.Removed.EndLine)

	if e.buffers == nil {
		return res, nil
	}
	if _, open := e.buffers.Text(path); open {
		if err := e.buffers.Update(path, res.After); err != nil {
			return res, fmt.Errorf("updating buffer %s: %w", path, err)
		}
	}
	if e.buffers.IsDirty(path) {
		if err := e.buffers.Save(ctx, path); err != nil {
			return res, fmt.Errorf("saving buffer %s: %w", path, err)
		}
		res.Saved = true
	}
	return res, nil
}
