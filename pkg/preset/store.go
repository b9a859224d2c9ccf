package preset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// Store resolves institution identifiers to static style tiers.
type Store interface {
	Lookup(ctx context.Context, id string) (style.PartialCatalog, bool)
	List(ctx context.Context) ([]string, error)
}

// Extensions tried, in order, for every lookup.
var Extensions = []string{".json", ".yaml", ".yml"}

// SanitizeID keeps only ASCII letters, digits, '_' and '-'.
func SanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Option configures an FSStore.
type Option func(*FSStore)

// WithLogger attaches a logger for malformed or partially recognised presets.
func WithLogger(l logger.Logger) Option {
	return func(s *FSStore) {
		s.logger = logger.OrNop(l)
	}
}

// WithName labels the store in log output.
func WithName(name string) Option {
	return func(s *FSStore) {
		s.name = name
	}
}

// FSStore reads presets from the root of an fs.FS.
type FSStore struct {
	fsys   fs.FS
	name   string
	logger logger.Logger
}

// NewFSStore builds a store over fsys. A nil fsys yields a store where every
// lookup is absent.
func NewFSStore(fsys fs.FS, opts ...Option) *FSStore {
	s := &FSStore{fsys: fsys, name: "fs", logger: logger.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewDirStore builds a store over a directory on disk.
func NewDirStore(dir string, opts ...Option) *FSStore {
	opts = append([]Option{WithName(dir)}, opts...)
	return NewFSStore(os.DirFS(dir), opts...)
}

// Lookup implements Store.
func (s *FSStore) Lookup(ctx context.Context, id string) (style.PartialCatalog, bool) {
	if s == nil || s.fsys == nil {
		return nil, false
	}
	if ctx != nil && ctx.Err() != nil {
		return nil, false
	}
	clean := SanitizeID(id)
	if clean == "" {
		return nil, false
	}

	for _, ext := range Extensions {
		name := clean + ext
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		log := s.logger.With(logger.String("store", s.name), logger.String("preset", name))
		if err != nil {
			log.Error("preset unreadable, treating as absent", logger.Error(err))
			return nil, false
		}
		tier, ignored, err := parse(ext, data)
		if err != nil {
			log.Error("preset malformed, treating as absent", logger.Error(err))
			return nil, false
		}
		if len(ignored) > 0 {
			log.Warn("preset contains unknown keys", logger.Strings("ignored", ignored))
		}
		return tier, true
	}
	return nil, false
}

// List implements Store. Identifiers are sorted and deduplicated across
// extensions.
func (s *FSStore) List(ctx context.Context) ([]string, error) {
	if s == nil || s.fsys == nil {
		return nil, nil
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("preset: list %s: %w", s.name, err)
	}
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if !isPresetExt(ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if id == "" || SanitizeID(id) != id {
			continue
		}
		seen[id] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func parse(ext string, data []byte) (style.PartialCatalog, []string, error) {
	if ext == ".json" {
		return style.ParseJSON(data)
	}
	return style.ParseYAML(data)
}

func isPresetExt(ext string) bool {
	for _, candidate := range Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
