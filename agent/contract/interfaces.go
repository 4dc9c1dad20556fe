package contract

import "context"

// ModelGateway renders a prompt template with the given bindings, invokes
// the model for the requested tier, and returns the raw completion text.
// All structure is recovered post-hoc by the response parser.
type ModelGateway interface {
	Complete(ctx context.Context, tier Tier, templateID string, bindings map[string]any) (string, error)
}

// CatalogSearcher queries the product catalog API.
type CatalogSearcher interface {
	Search(ctx context.Context, keywords string, itemCount int) ([]CatalogItem, error)
}

// WebSearcher performs a web search and fetches result pages as plain text.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	FetchPage(ctx context.Context, url string) (string, error)
}

// Forecaster returns a time-series forecast for a coordinate pair.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon string) ([]ForecastEntry, error)
}

// Retriever queries the vector knowledge base.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Notifier delivers a conversation summary to an external sink. The default
// implementation is a no-op.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// NoopNotifier discards every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string) error { return nil }
