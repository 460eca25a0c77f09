package tools

import (
	"context"
	"fmt"
	"strings"
)

// FAQTool searches the plain-text export of the admissions FAQ document.
// Sections are blank-line separated; the first line of a section is its
// title.
type FAQTool struct {
	cache  *DocCache
	docURL string
}

func NewFAQTool(cache *DocCache, docURL string) *FAQTool {
	return &FAQTool{cache: cache, docURL: docURL}
}

func (t *FAQTool) Name() string { return "search_faq" }

func (t *FAQTool) Description() string {
	return "Search frequently asked questions about dental school admissions, resources, discount codes and requirements."
}

// Call expects input {"query": ...} and returns {"results": "<sections>"}.
func (t *FAQTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	query := strings.TrimSpace(getString(input, "query"))
	if query == "" {
		return nil, fmt.Errorf("search_faq: query is required")
	}

	content, err := t.cache.Fetch(ctx, t.docURL)
	if err != nil {
		return nil, fmt.Errorf("search_faq: %w", err)
	}

	sections := splitSections(content)
	relevant := rankSections(sections, query, 3)
	if len(relevant) == 0 {
		return map[string]any{
			"results": "No FAQ entries matched this question.",
		}, nil
	}

	return map[string]any{
		"results": strings.Join(relevant, "\n\n---\n\n"),
	}, nil
}

func splitSections(content string) []string {
	var sections []string
	var current []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

func rankSections(sections []string, query string, limit int) []string {
	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		section string
		score   int
	}
	var candidates []scored
	for _, s := range sections {
		lower := strings.ToLower(s)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{section: s, score: score})
		}
	}

	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if len(candidates) < limit {
		limit = len(candidates)
	}
	out := make([]string, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.section)
	}
	return out
}
