package tools

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// SchoolStatsTool answers school statistics questions from the public CSV
// export of the admissions spreadsheet (GPA, DAT, prerequisites, tuition,
// acceptance rates per school).
type SchoolStatsTool struct {
	cache    *DocCache
	sheetURL string
}

func NewSchoolStatsTool(cache *DocCache, sheetURL string) *SchoolStatsTool {
	return &SchoolStatsTool{cache: cache, sheetURL: sheetURL}
}

func (t *SchoolStatsTool) Name() string { return "search_dental_schools" }

func (t *SchoolStatsTool) Description() string {
	return "Search the dental school database for stats: GPA, DAT scores, prerequisites, acceptance rates, tuition, class size and deadlines."
}

// Call expects input {"query": "<school name or stat question>"} and
// returns {"results": "<formatted rows>", "matches": n}.
func (t *SchoolStatsTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	query := strings.TrimSpace(getString(input, "query"))
	if query == "" {
		return nil, fmt.Errorf("search_dental_schools: query is required")
	}

	raw, err := t.cache.Fetch(ctx, t.sheetURL)
	if err != nil {
		return nil, fmt.Errorf("search_dental_schools: %w", err)
	}

	headers, rows, err := parseSheet(raw)
	if err != nil {
		return nil, fmt.Errorf("search_dental_schools: %w", err)
	}

	matches := searchRows(headers, rows, query)
	if len(matches) == 0 {
		return map[string]any{
			"results": fmt.Sprintf("No schools matched %q. Try the full university name or the state.", query),
			"matches": 0,
		}, nil
	}

	var b strings.Builder
	for i, row := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		for j, h := range headers {
			if j < len(row) && row[j] != "" {
				fmt.Fprintf(&b, "%s: %s\n", h, row[j])
			}
		}
	}

	return map[string]any{
		"results": b.String(),
		"matches": len(matches),
	}, nil
}

func parseSheet(raw string) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet is empty")
	}
	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, records[1:], nil
}

// searchRows scores each row by how many query terms appear in it, with
// the first column (school name) weighted highest. At most three rows
// come back so the model is not flooded.
func searchRows(headers []string, rows [][]string, query string) [][]string {
	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		row   []string
		score int
	}
	var candidates []scored

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.ToLower(row[0])
		full := strings.ToLower(strings.Join(row, " "))

		score := 0
		for _, term := range terms {
			if strings.Contains(name, term) {
				score += 10
			} else if strings.Contains(full, term) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{row: row, score: score})
		}
	}

	// Insertion sort by score descending; candidate lists are tiny.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	limit := 3
	if len(candidates) < limit {
		limit = len(candidates)
	}
	out := make([][]string, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.row)
	}
	return out
}
