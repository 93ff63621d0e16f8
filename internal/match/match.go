// Package match pairs local audio files with catalog products, either by
// content digest or by liver names found in the file name.
package match

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmcdole/koepalette/internal/catalog"
	"github.com/mmcdole/koepalette/internal/domain"
	"github.com/mmcdole/koepalette/internal/search"
)

// MaxSuggestions caps name-match suggestions per file
const MaxSuggestions = 5

// File is a blob offered for matching
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a File on disk
type LocalFile string

func (f LocalFile) Name() string                 { return filepath.Base(string(f)) }
func (f LocalFile) Path() string                 { return string(f) }
func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// HashMatch is a file whose digest equals a product's stored digest
type HashMatch struct {
	File       File
	Product    *domain.Product
	Digest     string
	Confidence domain.Confidence
}

// HashResult partitions the input files
type HashResult struct {
	Matches   []HashMatch
	Unmatched []File
}

// NameMatch lists candidate products for a file by liver name
type NameMatch struct {
	File        File
	Livers      []*domain.Liver
	Suggestions []*domain.Product
	Confidence  domain.Confidence
}

// NameResult partitions the input files
type NameResult struct {
	Matches   []NameMatch
	Unmatched []File
}

// ByHash digests every file with SHA-256 and looks the digest up in the
// index. Unreadable files are reported unmatched. Cancellation is checked
// between files; files not yet processed are reported unmatched along with
// the context error.
func ByHash(ctx context.Context, idx *catalog.Index, files []File, logger *slog.Logger) (HashResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var result HashResult
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			result.Unmatched = append(result.Unmatched, files[i:]...)
			return result, err
		}

		digest, err := Digest(f)
		if err != nil {
			logger.Warn("failed to hash file", "file", f.Name(), "error", err)
			result.Unmatched = append(result.Unmatched, f)
			continue
		}

		p, ok := idx.ProductByHash(digest)
		if !ok {
			result.Unmatched = append(result.Unmatched, f)
			continue
		}
		result.Matches = append(result.Matches, HashMatch{
			File:       f,
			Product:    p,
			Digest:     digest,
			Confidence: domain.ConfidenceHigh,
		})
	}

	logger.Debug("hash match complete", "files", len(files), "matched", len(result.Matches))
	return result, nil
}

// Digest streams a file through SHA-256 and returns lower-case hex
func Digest(f File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name(), err)
	}
	defer r.Close()

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ByName searches each file name for any liver's primary or secondary name,
// case-insensitively, and suggests up to MaxSuggestions products owned by the
// livers found, in catalog order. Files with nothing to suggest are
// unmatched. Empty names never match.
func ByName(idx *catalog.Index, files []File) NameResult {
	type liverKey struct {
		liver *domain.Liver
		names []string // folded, non-empty
	}

	keys := make([]liverKey, 0, len(idx.Livers()))
	for _, l := range idx.Livers() {
		if l == nil {
			continue
		}
		var names []string
		for _, n := range []string{l.PrimaryName(), l.SecondaryName()} {
			if n != "" {
				names = append(names, search.Fold(n))
			}
		}
		if len(names) > 0 {
			keys = append(keys, liverKey{liver: l, names: names})
		}
	}

	var result NameResult
	for _, f := range files {
		var livers []*domain.Liver
		var suggestions []*domain.Product

		for _, k := range keys {
			if !anyContained(f.Name(), k.names) {
				continue
			}
			livers = append(livers, k.liver)
			for _, p := range idx.LiverProducts(k.liver.ID) {
				if len(suggestions) < MaxSuggestions {
					suggestions = append(suggestions, p)
				}
			}
		}

		// A liver hit with no products is still nothing to suggest
		if len(suggestions) == 0 {
			result.Unmatched = append(result.Unmatched, f)
			continue
		}
		result.Matches = append(result.Matches, NameMatch{
			File:        f,
			Livers:      livers,
			Suggestions: suggestions,
			Confidence:  domain.ConfidenceMedium,
		})
	}
	return result
}

func anyContained(fileName string, foldedNames []string) bool {
	for _, n := range foldedNames {
		if search.ContainsFold(fileName, n) {
			return true
		}
	}
	return false
}
