package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// UserSummary summarizes the user's upcoming and past trips from their
// stored profile. Answers strictly from the profile, by prompt instruction.
type UserSummary struct {
	gateway contractx.ModelGateway
}

func NewUserSummary(gateway contractx.ModelGateway) *UserSummary {
	return &UserSummary{gateway: gateway}
}

func (k *UserSummary) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	answer, err := k.gateway.Complete(ctx, contractx.TierCapable, promptx.UserSummary, map[string]any{
		"input":        s.Input,
		"user_profile": profileBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}
	s.FinalOutput = &statex.Output{Answer: answer}
	return s
}
