package guide

import (
	"sort"
	"strings"
)

// Merge reconciles freshly extracted annotations with the state persisted by
// an earlier run. It is a pure function of its inputs: exact identifier
// matches keep their summaries, entries whose cell moved are found again by
// normalized content, and anything stale - identifiers no longer present and
// content no one annotated - is dropped. Merging a map with itself returns an
// equal map.
func Merge(fresh, previous AnnotationMap) AnnotationMap {
	// Content index of the previous run, only entries whose summary carries
	// real curated text can migrate. Keys are visited in sorted order so a
	// content collision resolves the same way every run.
	migratable := make(map[string]Annotation)
	ids := make([]string, 0, len(previous))
	for id := range previous {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		prev := previous[id]
		content := NormalizeContent(prev.Content)
		summary := strings.TrimSpace(prev.Summary)
		if content == "" || summary == "" || summary == NoDataSentinel {
			continue
		}
		migratable[content] = Annotation{Summary: summary, LastUpdated: prev.LastUpdated}
	}

	merged := make(AnnotationMap, len(fresh))
	for id, entry := range fresh {
		if prev, ok := previous[id]; ok {
			if prev.Summary != "" {
				entry.Summary = prev.Summary
			}
			if prev.LastUpdated != "" {
				entry.LastUpdated = prev.LastUpdated
			}
		} else if moved, ok := migratable[NormalizeContent(entry.Content)]; ok {
			entry.Summary = moved.Summary
			if moved.LastUpdated != "" {
				entry.LastUpdated = moved.LastUpdated
			}
		}
		merged[id] = entry
	}
	return merged
}
