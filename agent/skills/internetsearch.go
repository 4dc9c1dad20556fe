package skills

import (
	"context"
	"fmt"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// InternetSearch grounds an answer on the first web search hit: search,
// fetch that page as plain text, and feed it to the generation call. A
// failed fetch aborts the turn into the error path, no retry.
type InternetSearch struct {
	gateway contractx.ModelGateway
	web     contractx.WebSearcher
}

func NewInternetSearch(gateway contractx.ModelGateway, web contractx.WebSearcher) *InternetSearch {
	return &InternetSearch{gateway: gateway, web: web}
}

func (k *InternetSearch) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	results, err := k.web.Search(ctx, s.Input)
	if err != nil {
		return s.Fail(err)
	}
	if len(results) == 0 {
		return s.Fail(fmt.Errorf("%w: web search returned no results", contractx.ErrValidation))
	}
	first := results[0]

	pageText, err := k.web.FetchPage(ctx, first.Link)
	if err != nil {
		return s.Fail(err)
	}

	answer, err := k.gateway.Complete(ctx, contractx.TierCapable, promptx.InternetSearch, map[string]any{
		"input":         s.Input,
		"search_res":    pageText,
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	s.FinalOutput = &statex.Output{Answer: answer, Link: first.Link}
	return s
}
