package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"asmcut/internal/asm"
)

// DefaultExtensions are the file extensions indexed when none are given.
var DefaultExtensions = []string{".s", ".S", ".asm"}

// Definition locates one function in one module.
type Definition struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Index maps function names to the modules that define them. It is
// immutable once built.
type Index struct {
	Root    string
	Modules int
	defs    map[string][]Definition
}

// BuildIndex catalogs every assembly module under root. Modules are scanned
// by up to workers goroutines; unreadable modules are logged and skipped.
func BuildIndex(ctx context.Context, root string, exts []string, workers int, logger *slog.Logger) (*Index, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExt(path, exts) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		defs = make(map[string][]Definition)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("Skipping unreadable module", "path", path, "error", err)
				return nil
			}
			records := asm.CatalogText(string(data))

			mu.Lock()
			defer mu.Unlock()
			for _, rec := range records {
				defs[rec.Name] = append(defs[rec.Name], Definition{
					Name:      rec.Name,
					Path:      path,
					StartLine: rec.StartLine,
					EndLine:   rec.EndLine,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range defs {
		sort.SliceStable(d, func(i, j int) bool {
			if d[i].Path != d[j].Path {
				return d[i].Path < d[j].Path
			}
			return d[i].StartLine < d[j].StartLine
		})
	}
	logger.Debug("Indexed modules", "root", root, "modules", len(paths), "functions", len(defs))
	return &Index{Root: root, Modules: len(paths), defs: defs}, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Lookup returns the definitions of name ordered by path, then line.
func (idx *Index) Lookup(name string) []Definition {
	return idx.defs[name]
}

// Functions returns the number of distinct function names.
func (idx *Index) Functions() int { return len(idx.defs) }

// Resolve looks up every reference. Unknown names map to nil.
func (idx *Index) Resolve(refs []string) map[string][]Definition {
	out := make(map[string][]Definition, len(refs))
	for _, r := range refs {
		out[r] = idx.defs[r]
	}
	return out
}
