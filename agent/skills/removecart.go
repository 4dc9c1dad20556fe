package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	parsex "github.com/voyagent/voyagent/agent/parse"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// RemoveCart handles removal requests against the persisted cart.
//
// Known defect, reproduced on purpose: the persisted cart becomes the
// deduplicated list of the model's stated removed items, so everything the
// user did not name is silently dropped. The asins returned to the caller are
// the old cart extended with the removed items, duplicates intact. Kept
// verbatim and pinned by a regression test until the intended contract is
// confirmed.
type RemoveCart struct {
	gateway contractx.ModelGateway
	store   statex.Store
}

func NewRemoveCart(gateway contractx.ModelGateway, store statex.Store) *RemoveCart {
	return &RemoveCart{gateway: gateway, store: store}
}

func (k *RemoveCart) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	current := loadWishlist(ctx, k.store, s.UserID)

	removedText, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.RemoveCart, map[string]any{
		"input":         s.Input,
		"previous_chat": historyBinding(s),
		"cart":          asJSON(current),
	})
	if err != nil {
		return s.Fail(err)
	}

	var removed []statex.WishlistItem
	if parsed, ok := parsex.Best(removedText); ok {
		removed = statex.ItemsFromAny(parsed)
	}

	updated := statex.Dedup(removed)
	saveWishlist(ctx, k.store, s.UserID, updated)

	answer, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.ConfirmRemoval, map[string]any{
		"input": s.Input,
		"cart":  asJSON(updated),
	})
	if err != nil {
		return s.Fail(err)
	}

	extended := append(append([]statex.WishlistItem{}, current...), removed...)
	s.FinalOutput = &statex.Output{Answer: answer, Asins: extended, HasAsins: true}
	return s
}
