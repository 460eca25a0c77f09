package tools

import (
	"context"
	"fmt"
	"strings"
)

// EssayScoringTool prepares an essay for rubric analysis. The scoring
// itself happens in the model against the rubric in the agent
// instructions; this tool only reports the structural facts the rubric
// needs (length, word count).
type EssayScoringTool struct{}

func NewEssayScoringTool() *EssayScoringTool { return &EssayScoringTool{} }

func (t *EssayScoringTool) Name() string { return "score_essay" }

func (t *EssayScoringTool) Description() string {
	return "Score a dental school personal statement essay based on the official rubric."
}

// Call expects input {"essayText": ...}.
func (t *EssayScoringTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	essay := getString(input, "essayText")
	if essay == "" {
		return nil, fmt.Errorf("score_essay: essayText is required")
	}

	return map[string]any{
		"status":      "ready_for_analysis",
		"essayLength": len(essay),
		"wordCount":   len(strings.Fields(essay)),
	}, nil
}
