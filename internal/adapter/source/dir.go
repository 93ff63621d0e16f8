package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmcdole/koepalette/internal/domain"
)

// DirSource reads the catalog documents from a local directory, such as a
// checkout of the catalog repository. Every Fetch rereads the files.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// NewDirSource creates a source over dir
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{dir: dir, logger: logger}
}

func (s *DirSource) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	docs := make(map[string][]byte, len(domain.CatalogDocuments))
	for _, name := range domain.CatalogDocuments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		docs[name] = data
	}

	snap, err := domain.AssembleSnapshot(docs)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("read catalog directory", "dir", s.dir, "series", len(snap.Series))
	return snap, nil
}

// Invalidate is a no-op; the directory is never cached
func (s *DirSource) Invalidate() {}
