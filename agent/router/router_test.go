package router

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

type fakeGateway struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGateway) Complete(_ context.Context, _ contractx.Tier, _ string, _ map[string]any) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestClassifyKnownRoute(t *testing.T) {
	t.Parallel()

	r := New(&fakeGateway{answer: "weather"})
	if got := r.Classify(context.Background(), "what's the forecast for Napa"); got != contractx.RouteWeather {
		t.Fatalf("Classify() = %q, want weather", got)
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	t.Parallel()

	r := New(&fakeGateway{answer: "  packing_list\n"})
	if got := r.Classify(context.Background(), "make me a packing list"); got != contractx.RoutePackList {
		t.Fatalf("Classify() = %q, want packing_list", got)
	}
}

func TestClassifyUnknownAnswerFallsBack(t *testing.T) {
	t.Parallel()

	r := New(&fakeGateway{answer: "shopping"})
	if got := r.Classify(context.Background(), "hello"); got != contractx.RouteIntro {
		t.Fatalf("Classify() = %q, want intro", got)
	}
}

func TestClassifyCaseSensitive(t *testing.T) {
	t.Parallel()

	r := New(&fakeGateway{answer: "Weather"})
	if got := r.Classify(context.Background(), "forecast please"); got != contractx.RouteIntro {
		t.Fatalf("Classify() = %q, want intro for case mismatch", got)
	}
}

func TestClassifyGatewayErrorFallsBackWithoutRetry(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: errors.New("model unavailable")}
	r := New(gw)
	if got := r.Classify(context.Background(), "hello"); got != contractx.RouteIntro {
		t.Fatalf("Classify() = %q, want intro", got)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", gw.calls)
	}
}
