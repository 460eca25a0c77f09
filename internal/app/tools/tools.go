package tools

import (
	"context"
)

// ToolContext carries call metadata into a tool.
type ToolContext struct {
	UserID         string
	ConversationID string
	RequestID      string
}

// Tool is a side collaborator an agent configuration can invoke before
// generation. Input/output are generic maps to keep the contract flexible.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error)
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
