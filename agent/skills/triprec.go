package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// retrievalTopK is the fixed result count for knowledge base queries.
const retrievalTopK = 3

// TripRecommendation grounds recommendations on the vector knowledge base:
// top-3 passages plus their source URIs feed the generation call, and the
// URIs surface on the output for link rendering.
type TripRecommendation struct {
	gateway   contractx.ModelGateway
	retriever contractx.Retriever
}

func NewTripRecommendation(gateway contractx.ModelGateway, retriever contractx.Retriever) *TripRecommendation {
	return &TripRecommendation{gateway: gateway, retriever: retriever}
}

func (k *TripRecommendation) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	passages, err := k.retriever.Retrieve(ctx, s.Input, retrievalTopK)
	if err != nil {
		return s.Fail(err)
	}

	texts := make([]string, 0, len(passages))
	links := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
		if p.SourceURI != "" {
			links = append(links, p.SourceURI)
		}
	}

	answer, err := k.gateway.Complete(ctx, contractx.TierCapable, promptx.TripRecommendation, map[string]any{
		"input":         s.Input,
		"search_res":    asJSON(texts),
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	s.FinalOutput = &statex.Output{Answer: answer, Links: links}
	return s
}
