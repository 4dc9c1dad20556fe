package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

func TestLoadSplitsEveryTemplate(t *testing.T) {
	t.Parallel()

	set, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ids := []string{
		Route, Intro, InternetSearch, AmazonFacts, TripRecommendation,
		PackingList, SearchEntity, SearchFormat, ConsolidateCart, LongLat,
		WeatherReport, ConversationSummary, OrderCart, RemoveCart,
		ConfirmRemoval, AddFromHistory, UserSummary,
	}
	if len(set) != len(ids) {
		t.Fatalf("loaded %d templates, want %d", len(set), len(ids))
	}
	for _, id := range ids {
		tpl, err := set.Get(id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if strings.TrimSpace(tpl.System) == "" {
			t.Errorf("template %s has an empty system section", id)
		}
		if strings.TrimSpace(tpl.User) == "" {
			t.Errorf("template %s has an empty user section", id)
		}
		if strings.Contains(tpl.System, "\n---\n") || strings.Contains(tpl.User, "\n---\n") {
			t.Errorf("template %s kept the section separator", id)
		}
	}
}

func TestRouteTemplateBindsQuestion(t *testing.T) {
	t.Parallel()

	set := MustLoad()
	tpl, err := set.Get(Route)
	if err != nil {
		t.Fatalf("Get(route) error = %v", err)
	}
	if !strings.Contains(tpl.User, "{{.question}}") {
		t.Fatalf("route user section = %q, want question placeholder", tpl.User)
	}
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()

	set := MustLoad()
	if _, err := set.Get("no_such_template"); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("Get() error = %v, want ErrPromptMissing", err)
	}
}
