package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/papercomputeco/recall/pkg/backend"
)

// DefaultSuffixes are the file extensions ingested when none are configured.
var DefaultSuffixes = []string{".txt", ".md"}

// LoadOptions configure LoadDirectory.
type LoadOptions struct {
	// Suffixes restricts ingestion to these extensions, compared
	// case-insensitively. Defaults to DefaultSuffixes.
	Suffixes []string

	// Append adds the scanned documents instead of replacing the store.
	Append bool
}

// LoadReport summarizes a LoadDirectory call.
type LoadReport struct {
	Documents int
	Persist   backend.PersistResult
}

// ReadDirectory scans dir recursively, in lexical order, for regular files
// with an allowed extension and returns one document per file with its path
// under metadata["path"]. A missing directory yields no documents. Content
// that is not valid UTF-8 is decoded as ISO-8859-1.
func ReadDirectory(dir string, suffixes []string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading directory %s: not a directory", dir)
	}

	allowed := NormalizeSuffixes(suffixes)

	var docs []Document
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !MatchesSuffix(path, allowed) {
			return nil
		}

		content, err := readText(path)
		if err != nil {
			return err
		}
		docs = append(docs, Document{
			Content:  content,
			Metadata: map[string]string{"path": path},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}
	return docs, nil
}

// MatchesSuffix reports whether path has one of suffixes, which must already
// be lowercased.
func MatchesSuffix(path string, suffixes []string) bool {
	return slices.Contains(suffixes, strings.ToLower(filepath.Ext(path)))
}

// LoadDirectory ingests dir into the store. When the scan finds nothing the
// store is left untouched.
func (s *Store) LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (LoadReport, error) {
	docs, err := ReadDirectory(dir, opts.Suffixes)
	if err != nil {
		return LoadReport{}, err
	}
	if len(docs) == 0 {
		s.logger.Debug("no documents found, keeping current set", zap.String("dir", dir))
		return LoadReport{Persist: backend.Persisted(backend.SourceNone, nil)}, nil
	}

	var res backend.PersistResult
	if opts.Append {
		res = s.AddDocuments(ctx, docs)
	} else {
		res = s.ReplaceDocuments(ctx, docs)
	}

	s.logger.Info("loaded documents",
		zap.String("dir", dir),
		zap.Int("count", len(docs)),
		zap.Bool("append", opts.Append),
		zap.Stringer("persisted_to", res.Source),
	)
	return LoadReport{Documents: len(docs), Persist: res}, nil
}

// NormalizeSuffixes lowercases suffixes and ensures a leading dot, applying
// DefaultSuffixes when none are given.
func NormalizeSuffixes(suffixes []string) []string {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		out = append(out, s)
	}
	return out
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return string(decoded), nil
}
