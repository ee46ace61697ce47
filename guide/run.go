package guide

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Dtrusso8/jimsdrugguides/docx"
	"github.com/Dtrusso8/jimsdrugguides/state"
)

// Run drives conversion of a whole source tree: every course folder, every
// document inside it. One broken guide never stops the batch, the run fails
// only when nothing converts at all.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no source directory has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if name := cmd.String("index"); len(name) > 0 {
		env.IndexName = name
	} else {
		env.IndexName = env.Cfg.Conversion.Guides.IndexFilename
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the batch independently of the CLI framework: discover
// courses, convert their documents, refresh the index.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source directory was not found (%s): %w", src, err)
	}
	if !fi.Mode().IsDir() {
		return fmt.Errorf("source is not a directory (%s)", src)
	}

	courses, err := discoverCourses(src, &env.Cfg.Conversion.Courses, log)
	if err != nil {
		return fmt.Errorf("unable to read source directory: %w", err)
	}
	if len(courses) == 0 {
		return fmt.Errorf("no course folders found in (%s)", src)
	}

	var converted []*Metadata
	failed := 0

	for _, course := range courses {
		docs, err := listDocuments(course.Path)
		if err != nil {
			log.Error("Unable to read course folder", zap.String("course", course.Name), zap.Error(err))
			continue
		}
		if len(docs) == 0 {
			log.Warn("Skipping course, no documents found", zap.String("course", course.Name))
			continue
		}

		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			meta := buildMetadata(doc, dst, course, &env.Cfg.Conversion.Guides, log)
			if err := convertGuide(ctx, meta, log); err != nil {
				log.Error("Unable to convert guide", zap.String("file", doc), zap.Error(err))
				failed++
				continue
			}
			converted = append(converted, meta)
		}
	}

	if len(converted) == 0 {
		return fmt.Errorf("no guides converted, %d failed - ensure course folders contain documents", failed)
	}
	if failed > 0 {
		log.Warn("Some guides could not be converted", zap.Int("converted", len(converted)), zap.Int("failed", failed))
	}

	idx := BuildIndex(converted, dst)
	if err := WriteIndex(idx, dst, env.IndexName); err != nil {
		return fmt.Errorf("unable to write index: %w", err)
	}
	log.Info("Index updated", zap.String("file", filepath.Join(dst, env.IndexName)), zap.Int("guides", len(idx.Guides)))
	return nil
}

// listDocuments returns Word documents of a course folder in natural name
// order. Office lock files (~$...) are skipped.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".docx") || strings.HasPrefix(name, "~$") {
			continue
		}
		docs = append(docs, filepath.Join(dir, name))
	}
	slices.SortStableFunc(docs, func(a, b string) int {
		if a == b {
			return 0
		}
		if natural.Less(strings.ToLower(a), strings.ToLower(b)) {
			return -1
		}
		return 1
	})
	return docs, nil
}

// convertGuide converts a single document into its JSON payload and HTML
// fragment. Parsing problems in a single table skip that table, anything
// worse fails just this guide. Panics are contained so the batch survives a
// malformed document.
func convertGuide(ctx context.Context, meta *Metadata, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	log.Info("Conversion starting", zap.String("from", meta.SourcePath))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)),
				zap.String("from", meta.SourcePath), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)),
				zap.String("to", meta.JSONPath), zap.Int("tables", meta.TableCount))
		}
	}(time.Now())

	doc, err := docx.Open(meta.SourcePath, log)
	if err != nil {
		return fmt.Errorf("unable to open document: %w", err)
	}

	tables, tableErrs := normalizeTables(doc)
	if tableErrs != nil {
		log.Warn("Some tables were skipped", zap.String("file", meta.SourcePath), zap.Error(tableErrs))
	}
	meta.TableCount = len(tables)

	previous := LoadPreviousAnnotations(meta.JSONPath, log)
	payload := &Payload{
		Title:      meta.Title,
		Course:     meta.Course.Name,
		CourseSlug: meta.Course.Slug,
		Tags:       meta.Tags,
		Tables:     tables,
		CellData:   Merge(FreshAnnotations(tables), previous),
	}
	if err := WritePayload(meta.JSONPath, payload); err != nil {
		return fmt.Errorf("unable to write guide data: %w", err)
	}

	fragment := RenderFragment(doc, meta.Slug)
	if err := WriteFragment(meta.HTMLPath, fragment); err != nil {
		return fmt.Errorf("unable to write guide fragment: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(filepath.Join("guides", filepath.Base(meta.JSONPath)), meta.JSONPath)
		env.Rpt.Store(filepath.Join("guides", filepath.Base(meta.HTMLPath)), meta.HTMLPath)
	}
	return nil
}

// normalizeTables flattens every table of a document, accumulating per table
// problems instead of failing the whole guide. Tables without rows are left
// out.
func normalizeTables(d *docx.Document) ([]NormalizedTable, error) {
	var (
		tables []NormalizedTable
		errs   error
	)
	for i := range d.Tables {
		nt, ok, err := safeNormalize(&d.Tables[i])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("table %d: %w", i+1, err))
			continue
		}
		if ok {
			tables = append(tables, nt)
		}
	}
	return tables, errs
}

func safeNormalize(t *docx.Table) (nt NormalizedTable, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("broken table grid: %v", r)
		}
	}()
	nt, ok = normalizeTable(t)
	return
}
