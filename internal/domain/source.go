package domain

// SourceLink is read-only reference data describing a knowledge-base
// document a response drew from. Looked up by id after generation,
// never written by this service.
type SourceLink struct {
	ID          SourceID
	ContextName string
	Link        string
}
