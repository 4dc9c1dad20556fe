package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// OrderCart summarizes the persisted cart conversationally and echoes the
// same cart back as the item payload. Read-only, no store write.
type OrderCart struct {
	gateway contractx.ModelGateway
	store   statex.Store
}

func NewOrderCart(gateway contractx.ModelGateway, store statex.Store) *OrderCart {
	return &OrderCart{gateway: gateway, store: store}
}

func (k *OrderCart) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	cart := loadWishlist(ctx, k.store, s.UserID)

	answer, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.OrderCart, map[string]any{
		"input":         s.Input,
		"user_cart":     asJSON(cart),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	s.FinalOutput = &statex.Output{Answer: answer, Asins: cart, HasAsins: true}
	return s
}
