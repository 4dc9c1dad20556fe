// Package orchestrator owns one full turn: load state, classify, dispatch
// exactly one skill, persist the new turns, and shape the caller-facing
// envelope. The dispatch graph is compiled once at construction.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	contractx "github.com/voyagent/voyagent/agent/contract"
	routerx "github.com/voyagent/voyagent/agent/router"
	skillx "github.com/voyagent/voyagent/agent/skills"
	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

type Orchestrator struct {
	store    statex.Store
	router   *routerx.Router
	registry map[contractx.Route]skillx.Skill

	graphRunner compose.Runnable[*statex.ConversationState, contractx.Envelope]

	now func() time.Time
}

func New(ctx context.Context, store statex.Store, router *routerx.Router, registry map[contractx.Route]skillx.Skill) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	for _, route := range contractx.Routes {
		if registry[route] == nil {
			return nil, fmt.Errorf("no handler registered for route %q", route)
		}
	}

	o := &Orchestrator{
		store:    store,
		router:   router,
		registry: registry,
		now:      time.Now,
	}

	runner, err := o.compileTurnGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.graphRunner = runner
	return o, nil
}

// Run executes one turn. It never fails the caller for handler-internal
// errors; those surface as error-shaped answers inside the envelope.
func (o *Orchestrator) Run(ctx context.Context, inputText, userID string) (contractx.Envelope, error) {
	turnID := uuid.NewString()

	history, err := o.store.ChatHistory(ctx, chatSlotID)
	if err != nil {
		logx.Warn().Err(err).Str("turn_id", turnID).Msg("chat history read failed, starting empty")
		history = nil
	}
	profile, err := o.store.UserProfile(ctx, userID)
	if err != nil {
		logx.Warn().Err(err).Str("turn_id", turnID).Str("user_id", userID).Msg("user profile read failed, using empty profile")
		profile = nil
	}

	s := &statex.ConversationState{
		Input:          inputText,
		ChatHistory:    history,
		UserProfile:    profile,
		ConversationID: fmt.Sprintf("%s_%d", userID, o.now().Unix()),
		UserID:         userID,
	}

	logx.Info().Str("turn_id", turnID).Str("user_id", userID).Str("conversation_id", s.ConversationID).Msg("processing turn")

	env, err := o.graphRunner.Invoke(ctx, s)
	if err != nil {
		return contractx.Envelope{}, fmt.Errorf("turn graph invoke: %w", err)
	}
	return env, nil
}

// chatSlotID is the single chat record slot the current wiring uses.
const chatSlotID = "1"
