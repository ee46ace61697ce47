package guide

import (
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"github.com/Dtrusso8/jimsdrugguides/config"
)

// outputNameData is what an output name template sees.
type outputNameData struct {
	Title      string
	Course     string
	CourseSlug string
	Slug       string
	SourceFile string
}

// expandOutputName renders the configured output name template for a guide.
// The result is cleaned of characters the local filesystem cannot take. Any
// template problem falls back to the derived slug, a naming preference should
// never fail a conversion.
func expandOutputName(tmplText string, meta *Metadata, log *zap.Logger) string {
	fallback := meta.Slug

	tmpl, err := template.New("output_name").Funcs(sprig.FuncMap()).Parse(tmplText)
	if err != nil {
		log.Warn("Bad output name template, using slug", zap.String("template", tmplText), zap.Error(err))
		return fallback
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, outputNameData{
		Title:      meta.Title,
		Course:     meta.Course.Name,
		CourseSlug: meta.Course.Slug,
		Slug:       meta.Slug,
		SourceFile: meta.SourcePath,
	})
	if err != nil {
		log.Warn("Unable to expand output name template, using slug", zap.String("template", tmplText), zap.Error(err))
		return fallback
	}

	name := config.CleanFileName(strings.TrimSpace(sb.String()))
	if name == "" {
		log.Warn("Output name template produced empty name, using slug", zap.String("template", tmplText))
		return fallback
	}
	// keep names url safe the same way derived slugs are
	return makeSlug(name)
}
