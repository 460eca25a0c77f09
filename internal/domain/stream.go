package domain

// ChunkType discriminates the units an agent stream produces.
type ChunkType string

const (
	ChunkTextDelta ChunkType = "text-delta"
	ChunkFinish    ChunkType = "finish"
)

// Usage is the token accounting reported with the terminal finish chunk.
type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}

// StreamChunk is one incremental unit of model output. Text is set for
// text deltas, Usage for the finish chunk.
type StreamChunk struct {
	Type  ChunkType
	Text  string
	Usage *Usage
}

// AgentStream yields chunks as the model produces them. Recv returns
// io.EOF after the finish chunk has been delivered.
type AgentStream interface {
	Recv() (*StreamChunk, error)
}
