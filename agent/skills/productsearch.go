package skills

import (
	"context"
	"strings"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

// productSearchCount is the catalog result limit for direct searches.
const productSearchCount = 4

// ProductSearch reduces the utterance to a searchable entity phrase, runs
// one catalog search, and formats the hits. Catalog failures degrade to an
// empty result set rather than aborting the turn.
type ProductSearch struct {
	gateway contractx.ModelGateway
	catalog contractx.CatalogSearcher
}

func NewProductSearch(gateway contractx.ModelGateway, catalog contractx.CatalogSearcher) *ProductSearch {
	return &ProductSearch{gateway: gateway, catalog: catalog}
}

func (k *ProductSearch) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	entity, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.SearchEntity, map[string]any{
		"input":         s.Input,
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	query := stripEntityTags(entity)
	found, err := k.catalog.Search(ctx, query, productSearchCount)
	if err != nil {
		logx.Warn().Err(err).Str("query", query).Msg("catalog search failed, formatting empty results")
		found = nil
	}

	cart := make([]statex.WishlistItem, 0, len(found))
	for _, item := range found {
		cart = append(cart, statex.WishlistItem{
			ASIN:  item.ASIN,
			Qty:   1,
			Title: item.Title,
			Price: item.Price,
		})
	}

	answer, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.SearchFormat, map[string]any{
		"input":         s.Input,
		"prod_search":   asJSON(found),
		"user_profile":  profileBinding(s),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	s.FinalOutput = &statex.Output{Answer: answer, Asins: cart, HasAsins: true}
	return s
}

func stripEntityTags(text string) string {
	out := strings.ReplaceAll(text, "\n", "")
	out = strings.ReplaceAll(out, "<entity>", "")
	out = strings.ReplaceAll(out, "</entity>", "")
	return strings.TrimSpace(out)
}
