package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	parsex "github.com/voyagent/voyagent/agent/parse"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

const addCartConfirmation = "I have updated your cart, is there anything else I can do for you?"

// AddFromHistory asks the model which items mentioned in recent chat the
// user wants added, appends them to the persisted cart, and deduplicates
// by full field tuple.
type AddFromHistory struct {
	gateway contractx.ModelGateway
	store   statex.Store
}

func NewAddFromHistory(gateway contractx.ModelGateway, store statex.Store) *AddFromHistory {
	return &AddFromHistory{gateway: gateway, store: store}
}

func (k *AddFromHistory) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	current := loadWishlist(ctx, k.store, s.UserID)

	addedText, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.AddFromHistory, map[string]any{
		"input":         s.Input,
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	var added []statex.WishlistItem
	if parsed, ok := parsex.Best(addedText); ok {
		added = statex.ItemsFromAny(parsed)
	}

	updated := statex.Dedup(append(append([]statex.WishlistItem{}, current...), added...))
	saveWishlist(ctx, k.store, s.UserID, updated)

	s.FinalOutput = &statex.Output{Answer: addCartConfirmation, Asins: updated, HasAsins: true}
	return s
}
