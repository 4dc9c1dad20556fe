// Package prompt loads the embedded prompt templates. Each template file
// holds a system section and a user section separated by a line containing
// only "---"; placeholders use Go template syntax and are bound at call time
// by the model gateway.
package prompt

import (
	"embed"
	"fmt"
	"strings"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

//go:embed template/*.txt
var templateFS embed.FS

const sectionSeparator = "\n---\n"

// Template IDs. Every model call in the system names one of these.
const (
	Route               = "route"
	Intro               = "intro"
	InternetSearch      = "internet_search"
	AmazonFacts         = "amazon_facts"
	TripRecommendation  = "trip_recommendation"
	PackingList         = "packing_list"
	SearchEntity        = "search_entity"
	SearchFormat        = "search_format"
	ConsolidateCart     = "consolidate_cart"
	LongLat             = "longlat"
	WeatherReport       = "weather_report"
	ConversationSummary = "conversation_summary"
	OrderCart           = "order_cart"
	RemoveCart          = "remove_cart"
	ConfirmRemoval      = "confirm_removal"
	AddFromHistory      = "add_from_history"
	UserSummary         = "user_summary"
)

// Messages is one loaded template: a system part and a user part.
type Messages struct {
	System string
	User   string
}

// Set holds every loaded template keyed by id.
type Set map[string]Messages

// Load reads and splits all embedded templates. It fails fast on a missing
// or malformed file so wiring errors surface at startup, not mid-turn.
func Load() (Set, error) {
	ids := []string{
		Route, Intro, InternetSearch, AmazonFacts, TripRecommendation,
		PackingList, SearchEntity, SearchFormat, ConsolidateCart, LongLat,
		WeatherReport, ConversationSummary, OrderCart, RemoveCart,
		ConfirmRemoval, AddFromHistory, UserSummary,
	}

	set := make(Set, len(ids))
	for _, id := range ids {
		raw, err := templateFS.ReadFile("template/" + id + ".txt")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", contractx.ErrPromptMissing, id, err)
		}
		content := strings.ReplaceAll(string(raw), "\r\n", "\n")
		idx := strings.Index(content, sectionSeparator)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s has no system/user separator", contractx.ErrPromptMissing, id)
		}
		set[id] = Messages{
			System: strings.TrimSpace(content[:idx]),
			User:   strings.TrimSpace(content[idx+len(sectionSeparator):]),
		}
	}
	return set, nil
}

// MustLoad panics on a load failure. Intended for process start.
func MustLoad() Set {
	set, err := Load()
	if err != nil {
		panic(err)
	}
	return set
}

// Get returns the template for id.
func (s Set) Get(id string) (Messages, error) {
	m, ok := s[id]
	if !ok {
		return Messages{}, fmt.Errorf("%w: %s", contractx.ErrPromptMissing, id)
	}
	return m, nil
}
