package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/voyagent/voyagent/agent/contract"
	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

// compileTurnGraph builds the fixed dispatch graph: classify feeds exactly
// one skill node by route name, every skill node transitions unconditionally
// into persistence and envelope shaping.
func (o *Orchestrator) compileTurnGraph(ctx context.Context) (compose.Runnable[*statex.ConversationState, contractx.Envelope], error) {
	graph := compose.NewGraph[*statex.ConversationState, contractx.Envelope]()

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, s *statex.ConversationState) (*statex.ConversationState, error) {
			s.Next = o.router.Classify(ctx, s.Input)
			logx.Debug().Str("route", string(s.Next)).Msg("route selected")
			return s, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	for _, route := range contractx.Routes {
		route := route
		skill := o.registry[route]
		if err := graph.AddLambdaNode(string(route),
			compose.InvokableLambda(func(ctx context.Context, s *statex.ConversationState) (*statex.ConversationState, error) {
				return skill.Process(ctx, s), nil
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", route, err)
		}
	}

	if err := graph.AddLambdaNode("persist_history",
		compose.InvokableLambda(func(ctx context.Context, s *statex.ConversationState) (*statex.ConversationState, error) {
			return o.persistHistory(ctx, s), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_history: %w", err)
	}

	if err := graph.AddLambdaNode("shape_envelope",
		compose.InvokableLambda(func(ctx context.Context, s *statex.ConversationState) (contractx.Envelope, error) {
			return shapeEnvelope(s.FinalOutput), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node shape_envelope: %w", err)
	}

	endNodes := make(map[string]bool, len(contractx.Routes))
	for _, route := range contractx.Routes {
		endNodes[string(route)] = true
	}
	branch := compose.NewGraphBranch(
		func(ctx context.Context, s *statex.ConversationState) (string, error) {
			if s == nil {
				return "", fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
			}
			return string(s.Next), nil
		},
		endNodes,
	)

	if err := graph.AddEdge(compose.START, "classify"); err != nil {
		return nil, fmt.Errorf("add edge start->classify: %w", err)
	}
	if err := graph.AddBranch("classify", branch); err != nil {
		return nil, fmt.Errorf("add dispatch branch: %w", err)
	}
	for _, route := range contractx.Routes {
		if err := graph.AddEdge(string(route), "persist_history"); err != nil {
			return nil, fmt.Errorf("add edge %s->persist_history: %w", route, err)
		}
	}
	if err := graph.AddEdge("persist_history", "shape_envelope"); err != nil {
		return nil, fmt.Errorf("add edge persist_history->shape_envelope: %w", err)
	}
	if err := graph.AddEdge("shape_envelope", compose.END); err != nil {
		return nil, fmt.Errorf("add edge shape_envelope->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}

// persistHistory appends exactly two turns and writes the full history
// back. A write failure is logged and the turn still completes.
func (o *Orchestrator) persistHistory(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	if s.FinalOutput == nil {
		s.FinalOutput = &statex.Output{}
	}
	ts := o.now().Unix()
	updated := append(append([]statex.Turn{}, s.ChatHistory...),
		statex.Turn{Speaker: "user", Text: s.Input, Time: ts},
		statex.Turn{Speaker: "bot", Text: s.FinalOutput.Answer, Time: ts},
	)
	if err := o.store.PutChatHistory(ctx, chatSlotID, updated); err != nil {
		logx.Error().Err(err).Str("conversation_id", s.ConversationID).Msg("chat history write failed")
	} else {
		s.ChatHistory = updated
	}
	return s
}
