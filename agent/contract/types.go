package contract

// Route is the closed set of intents a user turn can resolve to. Produced
// fresh by the router each turn, never persisted.
type Route string

const (
	RouteIntro          Route = "intro"
	RouteInternetSearch Route = "internet_search"
	RouteAmazonFacts    Route = "amazon_facts"
	RouteTripRec        Route = "trip_recommendation"
	RoutePackList       Route = "packing_list"
	RouteWeather        Route = "weather"
	RouteConvSummary    Route = "conversation_summary"
	RouteOrderCart      Route = "order_cart"
	RouteProductSearch  Route = "product_search"
	RouteRemoveCart     Route = "remove_cart"
	RouteAddCart        Route = "add_cart"
	RouteUserSummary    Route = "user_summary"
	RouteGrocery        Route = "grocery"
)

// Routes lists every valid route in a stable order.
var Routes = []Route{
	RouteIntro,
	RouteInternetSearch,
	RouteAmazonFacts,
	RouteTripRec,
	RoutePackList,
	RouteWeather,
	RouteConvSummary,
	RouteOrderCart,
	RouteProductSearch,
	RouteRemoveCart,
	RouteAddCart,
	RouteUserSummary,
	RouteGrocery,
}

// ParseRoute matches s case-sensitively against the closed enumeration.
func ParseRoute(s string) (Route, bool) {
	for _, r := range Routes {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Tier selects which configured model a call goes to.
type Tier string

const (
	// TierFast is the cheap low-latency model used for routing and most
	// cart/list skills.
	TierFast Tier = "fast"
	// TierCapable is the stronger model used for search, recommendation,
	// and summary skills.
	TierCapable Tier = "capable"
)

// CatalogItem is one product returned by the catalog search API.
type CatalogItem struct {
	ASIN          string `json:"asin"`
	Title         string `json:"title"`
	Price         string `json:"price"`
	Rating        string `json:"rating,omitempty"`
	ReviewCount   int    `json:"review_count,omitempty"`
	DetailPageURL string `json:"detail_page_url,omitempty"`
}

// SearchResult is one hit from the web search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// ForecastEntry is one time slice of a weather forecast. Temperature is
// already converted to Fahrenheit at the provider edge.
type ForecastEntry struct {
	Datetime    string         `json:"datetime"`
	Temperature float64        `json:"temperature"`
	Pressure    int            `json:"pressure"`
	Humidity    int            `json:"humidity"`
	Weather     string         `json:"weather"`
	Wind        map[string]any `json:"wind,omitempty"`
	Clouds      map[string]any `json:"clouds,omitempty"`
}

// Passage is one retrieval hit from the vector knowledge base.
type Passage struct {
	Text      string `json:"text"`
	SourceURI string `json:"source_uri"`
}

// CartEntry is the caller-facing cart line in the response envelope.
type CartEntry struct {
	Qty  int    `json:"qty"`
	ASIN string `json:"asin"`
}

// Envelope is the caller-facing response for one turn.
type Envelope struct {
	PromptResponse string      `json:"promptResponse"`
	WordsToBold    []string    `json:"wordsToBold"`
	CartItemsList  []CartEntry `json:"cartItemsList,omitempty"`
	PromptTitle    string      `json:"promptTitle,omitempty"`
}
