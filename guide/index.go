package guide

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

const indexDateFormat = "2006-01-02T15:04:05-0700"

// IndexEntry is one guide's row in the catalog index.
type IndexEntry struct {
	Title      string   `json:"title"`
	Course     string   `json:"course"`
	CourseSlug string   `json:"courseSlug"`
	Tags       []string `json:"tags"`
	Slug       string   `json:"slug"`
	DataFile   string   `json:"dataFile"`
	Fragment   string   `json:"fragment"`
	SourceFile string   `json:"sourceFile"`
	Tables     int      `json:"tables"`
}

// Index is the catalog the site loads first: every converted guide with
// pointers to its artifacts. Each build gets a unique id so consumers can
// tell refreshes apart even within the same timestamp second.
type Index struct {
	Generated string       `json:"generated"`
	ID        string       `json:"id"`
	Guides    []IndexEntry `json:"guides"`
}

// BuildIndex assembles the catalog from converted guides, ordered naturally
// by title without regard to case. Fragment paths are relative to the output
// directory and always use forward slashes.
func BuildIndex(entries []*Metadata, outputDir string) *Index {
	idx := &Index{
		Generated: time.Now().UTC().Format(indexDateFormat),
		ID:        uuid.NewString(),
		Guides:    make([]IndexEntry, 0, len(entries)),
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *Metadata) int {
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at == bt {
			return 0
		}
		if natural.Less(at, bt) {
			return -1
		}
		return 1
	})

	for _, meta := range sorted {
		fragment := meta.HTMLPath
		if rel, err := filepath.Rel(outputDir, meta.HTMLPath); err == nil {
			fragment = rel
		}
		idx.Guides = append(idx.Guides, IndexEntry{
			Title:      meta.Title,
			Course:     meta.Course.Name,
			CourseSlug: meta.Course.Slug,
			Tags:       meta.Tags,
			Slug:       meta.Slug,
			DataFile:   filepath.Base(meta.JSONPath),
			Fragment:   filepath.ToSlash(fragment),
			SourceFile: meta.SourcePath,
			Tables:     meta.TableCount,
		})
	}
	return idx
}

// WriteIndex stores the catalog next to the guide data.
func WriteIndex(idx *Index, outputDir, filename string) error {
	return writeJSONValue(filepath.Join(outputDir, filename), idx)
}
