package guide

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"github.com/Dtrusso8/jimsdrugguides/config"
)

// makeSlug produces url safe identifiers. Underscores are folded into dashes
// first, the slug library would otherwise keep them.
func makeSlug(s string) string {
	return slug.Make(strings.ReplaceAll(s, "_", "-"))
}

// Course describes one course folder in the source tree. Every guide inside
// it inherits the course tags.
type Course struct {
	Name string
	Slug string
	Path string
	Tags []string
}

// Metadata describes a single guide: presentation fields plus where its
// artifacts go.
type Metadata struct {
	Title      string
	Course     *Course
	Slug       string
	SourcePath string
	JSONPath   string
	HTMLPath   string
	Tags       []string
	TableCount int
}

// discoverCourses lists course folders under sourceDir in natural name order,
// so "Unit 10" sorts after "Unit 9". Files at the top level are ignored.
func discoverCourses(sourceDir string, cfg *config.CoursesConfig, log *zap.Logger) ([]*Course, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}

	var courses []*Course
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := strings.TrimSpace(strings.ReplaceAll(entry.Name(), "_", " "))
		if name == "" {
			name = entry.Name()
		}
		path := filepath.Join(sourceDir, entry.Name())
		courses = append(courses, &Course{
			Name: name,
			Slug: makeSlug(name),
			Path: path,
			Tags: readCourseTags(filepath.Join(path, cfg.TagsFilename), log),
		})
	}
	slices.SortStableFunc(courses, func(a, b *Course) int {
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an == bn {
			return 0
		}
		if natural.Less(an, bn) {
			return -1
		}
		return 1
	})
	return courses, nil
}

// readCourseTags loads the optional tags file of a course: one tag per line,
// blanks skipped, duplicates dropped case insensitively, result sorted case
// insensitively. A missing file simply means no tags.
func readCourseTags(path string, log *zap.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Unable to read course tags", zap.String("file", path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	var tags []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tag := strings.TrimSpace(scanner.Text())
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	if err := scanner.Err(); err != nil {
		log.Warn("Unable to read course tags", zap.String("file", path), zap.Error(err))
	}
	slices.SortStableFunc(tags, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return tags
}

// buildMetadata derives a guide's title, slug and artifact paths from its
// source file name. An output name template, when configured, overrides the
// derived slug.
func buildMetadata(docPath, outputDir string, course *Course, cfg *config.GuidesConfig, log *zap.Logger) *Metadata {
	stem := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	title := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	if title == "" {
		title = stem
	}

	docSlug := makeSlug(stem)
	guideSlug := docSlug
	if course.Slug != "" {
		guideSlug = makeSlug(course.Slug + "-" + docSlug)
	}

	meta := &Metadata{
		Title:      title,
		Course:     course,
		Slug:       guideSlug,
		SourcePath: docPath,
		Tags:       slices.Clone(course.Tags),
	}
	name := guideSlug
	if cfg.OutputNameTemplate != "" {
		name = expandOutputName(cfg.OutputNameTemplate, meta, log)
	}
	meta.JSONPath = filepath.Join(outputDir, name+".json")
	meta.HTMLPath = filepath.Join(outputDir, cfg.HTMLSubdir, name+".html")
	return meta
}
