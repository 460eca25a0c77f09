package domain

// Conversation is one chat thread owned by a single user.
type Conversation struct {
	ID         ConversationID
	UserID     UserID
	ResourceID string
	Title      string
	Metadata   map[string]string
	CreatedAt  Timestamp
	UpdatedAt  Timestamp
}

// Part is one typed content unit inside a message. In practice every
// message carries a single text part, but the stored shape keeps the
// parts array so old rows and new rows read back identically.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is one persisted turn in a conversation. Rows are append-only
// except for the citation self-heal, which may extend the text of the
// most recent assistant message once.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	UserID         UserID
	Role           Role
	Parts          []Part
	Metadata       map[string]string
	FormatVersion  int
	CreatedAt      Timestamp
}

// Text returns the first text part, or "" when the message has none.
func (m *Message) Text() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0].Text
}

// TextParts wraps plain text in the stored parts shape.
func TextParts(text string) []Part {
	return []Part{{Type: "text", Text: text}}
}

// ChatMessage is the in-flight (role, text) pair fed to the agent runtime.
// It never carries storage identity.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
