// Package skills holds the thirteen conversational handlers. Every handler
// shares one contract: take the turn state, produce a final output or an
// error-shaped answer, and perform at most one store side effect. A handler
// never lets an error escape its own boundary.
package skills

import (
	"context"
	"encoding/json"

	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

// Skill processes one turn. Implementations must always return a state with
// FinalOutput set, converting any internal failure via state.Fail.
type Skill interface {
	Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState
}

// asJSON serializes a binding value for prompt interpolation. Marshal
// failures degrade to an empty JSON value rather than aborting the turn.
func asJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		logx.Warn().Err(err).Msg("binding serialization failed")
		return "{}"
	}
	return string(b)
}

func historyBinding(s *statex.ConversationState) string {
	return asJSON(s.RecentHistory())
}

func profileBinding(s *statex.ConversationState) string {
	if s.UserProfile == nil {
		return "{}"
	}
	return asJSON(s.UserProfile)
}

// loadWishlist reads the persisted cart, degrading to an empty list on any
// read failure.
func loadWishlist(ctx context.Context, store statex.Store, userID string) []statex.WishlistItem {
	items, err := store.Wishlist(ctx, userID)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("wishlist read failed, using empty cart")
		return nil
	}
	return items
}

// saveWishlist writes the cart back, logging and continuing on failure.
func saveWishlist(ctx context.Context, store statex.Store, userID string, items []statex.WishlistItem) {
	if err := store.PutWishlist(ctx, userID, items); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("wishlist write failed")
	}
}
