package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// VolunteerOpportunity is one parsed entry from the volunteer ideas
// document.
type VolunteerOpportunity struct {
	Name        string
	Description string
	WebsiteLink string
	Type        string // "remote", "in-person" or "both"
}

// VolunteerTool fetches and parses volunteer opportunity ideas. Entries
// look like "Name: (remote) - description" followed by optional
// "Website Link" lines.
type VolunteerTool struct {
	cache  *DocCache
	docURL string
}

func NewVolunteerTool(cache *DocCache, docURL string) *VolunteerTool {
	return &VolunteerTool{cache: cache, docURL: docURL}
}

func (t *VolunteerTool) Name() string { return "get_volunteer_opportunities" }

func (t *VolunteerTool) Description() string {
	return "Fetch volunteer and community service opportunities, filtered by remote or in-person preference."
}

var volunteerHeaderRe = regexp.MustCompile(`(?i)^(.+?):\s*\((remote|in-person|both)\)\s*-?\s*(.*)$`)
var websiteLinkRe = regexp.MustCompile(`(?i)website link[:\s]*(https?://\S+|www\.\S+)`)

// Call expects input {"preference": "remote"|"in-person"|""} and returns
// {"opportunities": []map, "count": n}.
func (t *VolunteerTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	preference := strings.ToLower(strings.TrimSpace(getString(input, "preference")))

	content, err := t.cache.Fetch(ctx, t.docURL)
	if err != nil {
		return nil, fmt.Errorf("get_volunteer_opportunities: %w", err)
	}

	all := parseOpportunities(content)

	var filtered []VolunteerOpportunity
	for _, op := range all {
		if preference == "" || op.Type == "both" || op.Type == preference {
			filtered = append(filtered, op)
		}
	}

	out := make([]map[string]any, 0, len(filtered))
	for _, op := range filtered {
		entry := map[string]any{
			"name":        op.Name,
			"description": op.Description,
			"type":        op.Type,
		}
		if op.WebsiteLink != "" {
			entry["websiteLink"] = op.WebsiteLink
		}
		out = append(out, entry)
	}

	return map[string]any{
		"opportunities": out,
		"count":         len(out),
	}, nil
}

func parseOpportunities(content string) []VolunteerOpportunity {
	lines := strings.Split(content, "\n")
	var opportunities []VolunteerOpportunity
	var current *VolunteerOpportunity

	flush := func() {
		if current != nil && current.Name != "" {
			opportunities = append(opportunities, *current)
		}
		current = nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := websiteLinkRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				current.WebsiteLink = normalizeURL(m[1])
			}
			continue
		}
		if strings.Contains(strings.ToLower(line), "website link") {
			// URL sits on the following line.
			if current != nil && i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if strings.HasPrefix(next, "http") || strings.HasPrefix(next, "www.") {
					current.WebsiteLink = normalizeURL(next)
					i++
				}
			}
			continue
		}
		if current != nil && (strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") || strings.HasPrefix(line, "www.")) {
			current.WebsiteLink = normalizeURL(line)
			continue
		}

		if m := volunteerHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &VolunteerOpportunity{
				Name:        strings.TrimSpace(m[1]),
				Type:        strings.ToLower(m[2]),
				Description: strings.TrimSpace(m[3]),
			}
			continue
		}

		// Continuation of the current description.
		if current != nil {
			if current.Description != "" {
				current.Description += " "
			}
			current.Description += line
		}
	}
	flush()

	return opportunities
}

func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
