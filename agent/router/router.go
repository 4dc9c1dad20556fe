// Package router classifies each user turn into exactly one route. The
// classifier is a single fast-tier model call whose output must match the
// closed route enumeration verbatim; anything else falls back to intro.
package router

import (
	"context"
	"strings"

	contractx "github.com/voyagent/voyagent/agent/contract"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

type Router struct {
	gateway contractx.ModelGateway
}

func New(gateway contractx.ModelGateway) *Router {
	return &Router{gateway: gateway}
}

// Classify returns the route for one utterance. It never fails: a model
// error or an out-of-enum answer routes to intro, with no retry.
func (r *Router) Classify(ctx context.Context, utterance string) contractx.Route {
	out, err := r.gateway.Complete(ctx, contractx.TierFast, promptx.Route, map[string]any{
		"question": utterance,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("route classification failed, falling back to intro")
		return contractx.RouteIntro
	}

	route, ok := contractx.ParseRoute(strings.TrimSpace(out))
	if !ok {
		logx.Warn().Str("answer", strings.TrimSpace(out)).Msg("route answer outside enumeration, falling back to intro")
		return contractx.RouteIntro
	}
	return route
}
