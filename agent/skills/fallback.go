package skills

import (
	"context"

	statex "github.com/voyagent/voyagent/agent/state"
)

const (
	fallbackPackingAnswer = "I'd love to help you create a packing list, but product search is currently disabled. I can provide general packing advice instead! What type of trip are you planning?"
	fallbackSearchAnswer  = "Product search is currently disabled. I can help you with travel recommendations, weather information, or general travel advice instead!"
)

// StaticAnswer replaces a catalog-backed handler when catalog credentials
// are absent. Selected once at wiring time, never per request.
type StaticAnswer struct {
	answer string
}

func NewFallbackPackingList() *StaticAnswer {
	return &StaticAnswer{answer: fallbackPackingAnswer}
}

func NewFallbackProductSearch() *StaticAnswer {
	return &StaticAnswer{answer: fallbackSearchAnswer}
}

func (k *StaticAnswer) Process(_ context.Context, s *statex.ConversationState) *statex.ConversationState {
	s.FinalOutput = &statex.Output{Answer: k.answer}
	return s
}
