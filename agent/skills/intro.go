package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// Intro answers greeting and capability questions. Also the router's
// fallback target for anything it cannot classify.
type Intro struct {
	gateway contractx.ModelGateway
}

func NewIntro(gateway contractx.ModelGateway) *Intro {
	return &Intro{gateway: gateway}
}

func (k *Intro) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	answer, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.Intro, map[string]any{
		"input":         s.Input,
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}
	s.FinalOutput = &statex.Output{Answer: answer}
	return s
}
