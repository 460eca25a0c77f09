package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// NewConversationID generates a timestamped conversation id with a random
// suffix, matching the ids clients mint for themselves.
func NewConversationID(now time.Time) domain.ConversationID {
	return domain.ConversationID(fmt.Sprintf("conv_%d_%s", now.UnixMilli(), uuid.NewString()[:8]))
}

// newMessageID generates a timestamped, role-suffixed message id.
func newMessageID(now time.Time, role domain.Role) domain.MessageID {
	return domain.MessageID(fmt.Sprintf("msg_%d_%s", now.UnixMilli(), role))
}
