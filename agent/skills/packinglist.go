package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	parsex "github.com/voyagent/voyagent/agent/parse"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// packingSearchCount is the per-entity catalog result limit.
const packingSearchCount = 2

// PackingList builds a packing or grocery list in stages: generate a
// bounded entity list, search the catalog per entity, format the merged
// results for the user, then reconcile which catalog items enter the cart.
// A failure at any stage aborts the whole chain into the error path.
type PackingList struct {
	gateway contractx.ModelGateway
	catalog contractx.CatalogSearcher
}

func NewPackingList(gateway contractx.ModelGateway, catalog contractx.CatalogSearcher) *PackingList {
	return &PackingList{gateway: gateway, catalog: catalog}
}

func (k *PackingList) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	listed, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.PackingList, map[string]any{
		"input":         s.Input,
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	var products []contractx.CatalogItem
	var cart []statex.WishlistItem
	for _, entity := range parsex.TaggedList(listed) {
		found, err := k.catalog.Search(ctx, entity, packingSearchCount)
		if err != nil {
			return s.Fail(err)
		}
		products = append(products, found...)
		for _, item := range found {
			cart = append(cart, statex.WishlistItem{
				ASIN:  item.ASIN,
				Qty:   1,
				Title: item.Title,
				Price: item.Price,
			})
		}
	}

	formatted, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.SearchFormat, map[string]any{
		"input":         s.Input,
		"prod_search":   asJSON(products),
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	consolidated, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.ConsolidateCart, map[string]any{
		"cart":   asJSON(cart),
		"answer": formatted,
	})
	if err != nil {
		return s.Fail(err)
	}

	// An unparseable reconciliation means no structured cart, not an error.
	var reconciled []statex.WishlistItem
	if parsed, ok := parsex.Best(consolidated); ok {
		reconciled = statex.ItemsFromAny(parsed)
	}

	s.FinalOutput = &statex.Output{Answer: formatted, Asins: reconciled, HasAsins: true}
	return s
}
