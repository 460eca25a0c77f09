// Package agents maps an agent mode to the configuration that answers the
// turn: model, system instructions, tool set and (for the general mentor)
// the knowledge-base retriever.
package agents

import (
	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
	"github.com/dentalschoolguide/eden-agent/internal/app/tools"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// Config is one resolved agent configuration.
type Config struct {
	Name         string
	Mode         domain.AgentMode
	Model        string
	Instructions string
	// Tools are invoked by the agent runtime, in order, to build context
	// before generation.
	Tools []tools.Tool
	// Retriever is set only for configurations that ground answers in the
	// knowledge base.
	Retriever retrieval.Retriever
}

// Models names the model identifiers the registry hands out.
type Models struct {
	Pro   string
	Flash string
}

// Toolset holds the shared tool instances the configurations draw from.
type Toolset struct {
	SchoolStats        tools.Tool
	FAQ                tools.Tool
	Volunteer          tools.Tool
	SchoolWebsite      tools.Tool
	InterviewQuestions tools.Tool
	EssayScoring       tools.Tool
}

type Registry struct {
	models    Models
	toolset   Toolset
	retriever retrieval.Retriever
}

func NewRegistry(models Models, toolset Toolset, retriever retrieval.Retriever) *Registry {
	return &Registry{models: models, toolset: toolset, retriever: retriever}
}

// Resolve returns the configuration for a mode. Unknown or empty modes
// resolve to the general mentor; this is the fallback, never an error.
func (r *Registry) Resolve(mode domain.AgentMode) Config {
	switch mode {
	case domain.ModeSchoolInfo:
		return Config{
			Name:         "Eden - School Info Specialist",
			Mode:         mode,
			Model:        r.models.Flash,
			Instructions: schoolInfoInstructions,
			Tools:        compact(r.toolset.SchoolStats, r.toolset.SchoolWebsite),
		}
	case domain.ModeEssayFeedback:
		return Config{
			Name:         "Eden - Essay Feedback Specialist",
			Mode:         mode,
			Model:        r.models.Flash,
			Instructions: essayFeedbackInstructions,
			Tools:        compact(r.toolset.EssayScoring),
		}
	case domain.ModeInterviewDrill:
		return Config{
			Name:         "Coach - Interview Drill Specialist",
			Mode:         mode,
			Model:        r.models.Pro,
			Instructions: interviewDrillInstructions,
			Tools:        compact(r.toolset.InterviewQuestions),
		}
	case domain.ModeVolunteerIdeas:
		return Config{
			Name:         "Eden - Volunteer Coordinator",
			Mode:         mode,
			Model:        r.models.Pro,
			Instructions: volunteerInstructions,
			Tools:        compact(r.toolset.Volunteer),
		}
	default:
		return Config{
			Name:         "Eden - Dental Mentor AI",
			Mode:         domain.ModeGeneral,
			Model:        r.models.Pro,
			Instructions: generalMentorInstructions,
			Tools:        compact(r.toolset.SchoolStats, r.toolset.FAQ, r.toolset.Volunteer),
			Retriever:    r.retriever,
		}
	}
}

func compact(ts ...tools.Tool) []tools.Tool {
	out := make([]tools.Tool, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
