package skills

import (
	contractx "github.com/voyagent/voyagent/agent/contract"
	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

// Deps carries the construction-time dependencies shared across handlers.
// Catalog may be nil when catalog credentials are not configured.
type Deps struct {
	Gateway    contractx.ModelGateway
	Store      statex.Store
	Catalog    contractx.CatalogSearcher
	Web        contractx.WebSearcher
	Retriever  contractx.Retriever
	Forecaster contractx.Forecaster
	Notifier   contractx.Notifier
}

// NewRegistry wires one handler per route. When no catalog client is
// available the catalog-backed handlers are replaced by their static
// fallback variants, decided here once.
func NewRegistry(deps Deps) map[contractx.Route]Skill {
	var packing, search Skill
	if deps.Catalog != nil {
		packing = NewPackingList(deps.Gateway, deps.Catalog)
		search = NewProductSearch(deps.Gateway, deps.Catalog)
	} else {
		logx.Warn().Msg("catalog client not configured, using fallback handlers for packing list and product search")
		packing = NewFallbackPackingList()
		search = NewFallbackProductSearch()
	}

	return map[contractx.Route]Skill{
		contractx.RouteIntro:          NewIntro(deps.Gateway),
		contractx.RouteInternetSearch: NewInternetSearch(deps.Gateway, deps.Web),
		contractx.RouteAmazonFacts:    NewStoreFacts(deps.Gateway),
		contractx.RouteTripRec:        NewTripRecommendation(deps.Gateway, deps.Retriever),
		contractx.RoutePackList:       packing,
		contractx.RouteGrocery:        packing,
		contractx.RouteWeather:        NewWeather(deps.Gateway, deps.Forecaster),
		contractx.RouteConvSummary:    NewConversationSummary(deps.Gateway, deps.Notifier),
		contractx.RouteOrderCart:      NewOrderCart(deps.Gateway, deps.Store),
		contractx.RouteProductSearch:  search,
		contractx.RouteRemoveCart:     NewRemoveCart(deps.Gateway, deps.Store),
		contractx.RouteAddCart:        NewAddFromHistory(deps.Gateway, deps.Store),
		contractx.RouteUserSummary:    NewUserSummary(deps.Gateway),
	}
}
