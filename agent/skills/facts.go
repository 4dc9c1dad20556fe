package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// StoreFacts answers general questions about the retailer and its
// membership program from a fixed context block in the prompt.
type StoreFacts struct {
	gateway contractx.ModelGateway
}

func NewStoreFacts(gateway contractx.ModelGateway) *StoreFacts {
	return &StoreFacts{gateway: gateway}
}

func (k *StoreFacts) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	answer, err := k.gateway.Complete(ctx, contractx.TierCapable, promptx.AmazonFacts, map[string]any{
		"input":        s.Input,
		"user_profile": profileBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}
	s.FinalOutput = &statex.Output{Answer: answer}
	return s
}
