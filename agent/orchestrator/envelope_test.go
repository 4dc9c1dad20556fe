package orchestrator

import (
	"reflect"
	"strings"
	"testing"

	contractx "github.com/voyagent/voyagent/agent/contract"
	statex "github.com/voyagent/voyagent/agent/state"
)

func TestShapeEnvelopeAnswerTagExtraction(t *testing.T) {
	t.Parallel()

	out := &statex.Output{Answer: "scratch work\n<answer>Pack light layers.</answer>"}
	env := shapeEnvelope(out)
	if env.PromptResponse != "Pack light layers." {
		t.Fatalf("PromptResponse = %q, want text after answer tag", env.PromptResponse)
	}
}

func TestShapeEnvelopeUsesLastAnswerTag(t *testing.T) {
	t.Parallel()

	out := &statex.Output{Answer: "<answer>first</answer><answer>second</answer>"}
	env := shapeEnvelope(out)
	if env.PromptResponse != "second" {
		t.Fatalf("PromptResponse = %q, want second", env.PromptResponse)
	}
}

func TestShapeEnvelopeWholeTextWithoutTag(t *testing.T) {
	t.Parallel()

	env := shapeEnvelope(&statex.Output{Answer: "Just a plain answer."})
	if env.PromptResponse != "Just a plain answer." {
		t.Fatalf("PromptResponse = %q", env.PromptResponse)
	}
}

func TestShapeEnvelopeStripsMarkerTags(t *testing.T) {
	t.Parallel()

	out := &statex.Output{Answer: "<answer>See <highlight link>this tour</highlight link> today</answer>"}
	env := shapeEnvelope(out)
	if strings.Contains(env.PromptResponse, "highlight") || strings.Contains(env.PromptResponse, "</answer>") {
		t.Fatalf("PromptResponse = %q, want marker tags stripped", env.PromptResponse)
	}
	if env.PromptResponse != "See this tour today" {
		t.Fatalf("PromptResponse = %q, want cleaned text", env.PromptResponse)
	}
}

func TestShapeEnvelopeWordsToBoldNeverNil(t *testing.T) {
	t.Parallel()

	env := shapeEnvelope(&statex.Output{Answer: "hello"})
	if env.WordsToBold == nil || len(env.WordsToBold) != 0 {
		t.Fatalf("WordsToBold = %v, want empty non-nil slice", env.WordsToBold)
	}
}

func TestShapeEnvelopeCartNormalization(t *testing.T) {
	t.Parallel()

	out := &statex.Output{
		Answer: "updated",
		Asins: []statex.WishlistItem{
			{ASIN: "A", Qty: 2},
			{ASIN: "B", Qty: 0},
		},
		HasAsins: true,
	}
	env := shapeEnvelope(out)
	want := []contractx.CartEntry{{Qty: 2, ASIN: "A"}, {Qty: 1, ASIN: "B"}}
	if !reflect.DeepEqual(env.CartItemsList, want) {
		t.Fatalf("CartItemsList = %v, want %v", env.CartItemsList, want)
	}
}

func TestShapeEnvelopeOmitsCartWithoutAsins(t *testing.T) {
	t.Parallel()

	env := shapeEnvelope(&statex.Output{Answer: "hello"})
	if env.CartItemsList != nil {
		t.Fatalf("CartItemsList = %v, want nil", env.CartItemsList)
	}
}

func TestShapeEnvelopeLinkRewrite(t *testing.T) {
	t.Parallel()

	env := shapeEnvelope(&statex.Output{Answer: "found it", Link: "https://example.com/video"})
	want := `<iframe width="560" height="315" src=https://example.com/video frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen></iframe>`
	if env.PromptTitle != want {
		t.Fatalf("PromptTitle = %q, want player markup", env.PromptTitle)
	}
}

func TestShapeEnvelopeLinkTakesPrecedenceOverVideoData(t *testing.T) {
	t.Parallel()

	env := shapeEnvelope(&statex.Output{
		Answer:    "found it",
		Link:      "https://example.com/a",
		VideoData: "https://example.com/b",
	})
	if !strings.Contains(env.PromptTitle, "https://example.com/a") || strings.Contains(env.PromptTitle, "https://example.com/b") {
		t.Fatalf("PromptTitle = %q, want link used, not video data", env.PromptTitle)
	}
}

func TestVideoMarkdownLeavesNonURLTextAlone(t *testing.T) {
	t.Parallel()

	if got := videoMarkdown("no links here"); got != "no links here" {
		t.Fatalf("videoMarkdown() = %q, want unchanged text", got)
	}
}
