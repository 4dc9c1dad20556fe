package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/voyagent/voyagent/agent/contract"
	routerx "github.com/voyagent/voyagent/agent/router"
	skillx "github.com/voyagent/voyagent/agent/skills"
	statex "github.com/voyagent/voyagent/agent/state"
)

type fakeGateway struct {
	route string
	err   error
}

func (f *fakeGateway) Complete(context.Context, contractx.Tier, string, map[string]any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.route, nil
}

type fakeStore struct {
	profile      map[string]any
	history      []statex.Turn
	readErr      error
	writeErr     error
	putHistories [][]statex.Turn
}

func (f *fakeStore) UserProfile(context.Context, string) (map[string]any, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.profile, nil
}

func (f *fakeStore) ChatHistory(context.Context, string) ([]statex.Turn, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.history, nil
}

func (f *fakeStore) PutChatHistory(_ context.Context, _ string, history []statex.Turn) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.putHistories = append(f.putHistories, history)
	return nil
}

func (f *fakeStore) Wishlist(context.Context, string) ([]statex.WishlistItem, error) {
	return nil, nil
}

func (f *fakeStore) PutWishlist(context.Context, string, []statex.WishlistItem) error {
	return nil
}

type stubSkill struct {
	answer string
	calls  int
}

func (s *stubSkill) Process(_ context.Context, st *statex.ConversationState) *statex.ConversationState {
	s.calls++
	st.FinalOutput = &statex.Output{Answer: s.answer}
	return st
}

func stubRegistry(answer string) (map[contractx.Route]skillx.Skill, map[contractx.Route]*stubSkill) {
	registry := make(map[contractx.Route]skillx.Skill, len(contractx.Routes))
	stubs := make(map[contractx.Route]*stubSkill, len(contractx.Routes))
	for _, route := range contractx.Routes {
		stub := &stubSkill{answer: answer}
		registry[route] = stub
		stubs[route] = stub
	}
	return registry, stubs
}

func newTestOrchestrator(t *testing.T, store statex.Store, gw contractx.ModelGateway, registry map[contractx.Route]skillx.Skill) *Orchestrator {
	t.Helper()
	o, err := New(context.Background(), store, routerx.New(gw), registry)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	o.now = func() time.Time { return time.Unix(1000, 0) }
	return o
}

func TestNewRequiresHandlerPerRoute(t *testing.T) {
	t.Parallel()

	registry, _ := stubRegistry("hi")
	delete(registry, contractx.RouteGrocery)

	if _, err := New(context.Background(), &fakeStore{}, routerx.New(&fakeGateway{}), registry); err == nil {
		t.Fatalf("New() error = nil, want missing handler error")
	}
}

func TestRunIntroEndToEnd(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	registry, stubs := stubRegistry("I can plan trips and build packing lists.")

	o := newTestOrchestrator(t, store, &fakeGateway{route: "intro"}, registry)

	env, err := o.Run(context.Background(), "What can you do?", "user-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.PromptResponse != "I can plan trips and build packing lists." {
		t.Fatalf("PromptResponse = %q", env.PromptResponse)
	}
	if len(env.WordsToBold) != 0 || env.WordsToBold == nil {
		t.Fatalf("WordsToBold = %v, want empty non-nil", env.WordsToBold)
	}
	if env.CartItemsList != nil {
		t.Fatalf("CartItemsList = %v, want absent", env.CartItemsList)
	}
	if stubs[contractx.RouteIntro].calls != 1 {
		t.Fatalf("intro calls = %d, want 1", stubs[contractx.RouteIntro].calls)
	}
	for route, stub := range stubs {
		if route != contractx.RouteIntro && stub.calls != 0 {
			t.Fatalf("route %q was dispatched, want only intro", route)
		}
	}
}

func TestRunDispatchesByRoute(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	registry, stubs := stubRegistry("done")

	o := newTestOrchestrator(t, store, &fakeGateway{route: "order_cart"}, registry)

	if _, err := o.Run(context.Background(), "order my cart", "user-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stubs[contractx.RouteOrderCart].calls != 1 {
		t.Fatalf("order_cart calls = %d, want 1", stubs[contractx.RouteOrderCart].calls)
	}
}

func TestRunAppendsExactlyTwoTurns(t *testing.T) {
	t.Parallel()

	store := &fakeStore{history: []statex.Turn{{Speaker: "user", Text: "earlier", Time: 50}}}
	registry, _ := stubRegistry("the answer")

	o := newTestOrchestrator(t, store, &fakeGateway{route: "intro"}, registry)

	if _, err := o.Run(context.Background(), "hello", "user-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.putHistories) != 1 {
		t.Fatalf("history writes = %d, want 1", len(store.putHistories))
	}
	written := store.putHistories[0]
	if len(written) != 3 {
		t.Fatalf("written history len = %d, want 3", len(written))
	}
	userTurn, botTurn := written[1], written[2]
	if userTurn.Speaker != "user" || userTurn.Text != "hello" {
		t.Fatalf("user turn = %+v", userTurn)
	}
	if botTurn.Speaker != "bot" || botTurn.Text != "the answer" {
		t.Fatalf("bot turn = %+v", botTurn)
	}
	if userTurn.Time != 1000 || botTurn.Time != 1000 {
		t.Fatalf("turn times = (%d, %d), want 1000", userTurn.Time, botTurn.Time)
	}
}

func TestRunStoreReadFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	store := &fakeStore{readErr: errors.New("table down")}
	registry, _ := stubRegistry("still answering")

	o := newTestOrchestrator(t, store, &fakeGateway{route: "intro"}, registry)

	env, err := o.Run(context.Background(), "hello", "user-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.PromptResponse != "still answering" {
		t.Fatalf("PromptResponse = %q", env.PromptResponse)
	}
}

func TestRunHistoryWriteFailureStillCompletes(t *testing.T) {
	t.Parallel()

	store := &fakeStore{writeErr: errors.New("table down")}
	registry, _ := stubRegistry("the answer")

	o := newTestOrchestrator(t, store, &fakeGateway{route: "intro"}, registry)

	env, err := o.Run(context.Background(), "hello", "user-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.PromptResponse != "the answer" {
		t.Fatalf("PromptResponse = %q", env.PromptResponse)
	}
}

func TestRunRouterFailureLandsOnIntro(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	registry, stubs := stubRegistry("fallback answer")

	o := newTestOrchestrator(t, store, &fakeGateway{err: errors.New("model down")}, registry)

	if _, err := o.Run(context.Background(), "gibberish", "user-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stubs[contractx.RouteIntro].calls != 1 {
		t.Fatalf("intro calls = %d, want router fallback dispatch", stubs[contractx.RouteIntro].calls)
	}
}

func TestRunComposesConversationID(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	registry := make(map[contractx.Route]skillx.Skill, len(contractx.Routes))
	var seen string
	for _, route := range contractx.Routes {
		registry[route] = &captureSkill{seen: &seen}
	}

	o := newTestOrchestrator(t, store, &fakeGateway{route: "intro"}, registry)

	if _, err := o.Run(context.Background(), "hello", "user-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(seen, "user-1_") {
		t.Fatalf("conversation id = %q, want user id prefix", seen)
	}
}

type captureSkill struct {
	seen *string
}

func (c *captureSkill) Process(_ context.Context, st *statex.ConversationState) *statex.ConversationState {
	*c.seen = st.ConversationID
	st.FinalOutput = &statex.Output{Answer: "ok"}
	return st
}
