package domain

import "time"

type ConversationID string
type MessageID string
type UserID string
type SourceID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// AgentMode selects which agent configuration answers a turn.
// The zero value is the general mentor.
type AgentMode string

const (
	ModeGeneral        AgentMode = ""
	ModeSchoolInfo     AgentMode = "School Info"
	ModeEssayFeedback  AgentMode = "Essay feedback"
	ModeInterviewDrill AgentMode = "Interview Drill"
	ModeVolunteerIdeas AgentMode = "Volunteer Ideas"
)

// ParseAgentMode maps a client-supplied mode string to an AgentMode.
// Anything unrecognized falls back to the general mentor.
func ParseAgentMode(s string) AgentMode {
	switch s {
	case string(ModeSchoolInfo):
		return ModeSchoolInfo
	case string(ModeEssayFeedback):
		return ModeEssayFeedback
	case string(ModeInterviewDrill):
		return ModeInterviewDrill
	case string(ModeVolunteerIdeas):
		return ModeVolunteerIdeas
	default:
		return ModeGeneral
	}
}

type Timestamp = time.Time
