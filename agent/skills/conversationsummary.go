package skills

import (
	"context"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

// ConversationSummary narrates the conversation so far and optionally
// forwards the summary to a notification sink. Delivery failures never
// affect the answer.
type ConversationSummary struct {
	gateway  contractx.ModelGateway
	notifier contractx.Notifier
}

func NewConversationSummary(gateway contractx.ModelGateway, notifier contractx.Notifier) *ConversationSummary {
	if notifier == nil {
		notifier = contractx.NoopNotifier{}
	}
	return &ConversationSummary{gateway: gateway, notifier: notifier}
}

func (k *ConversationSummary) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	summary, err := k.gateway.Complete(ctx, contractx.TierCapable, promptx.ConversationSummary, map[string]any{
		"input":         s.Input,
		"previous_chat": historyBinding(s),
		"user_profile":  profileBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	if err := k.notifier.Notify(ctx, "Conversation Summary", summary); err != nil {
		logx.Warn().Err(err).Msg("summary notification failed")
	}

	s.FinalOutput = &statex.Output{Answer: summary}
	return s
}
