package skills

import (
	"context"
	"fmt"
	"strconv"

	contractx "github.com/voyagent/voyagent/agent/contract"
	parsex "github.com/voyagent/voyagent/agent/parse"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	statex "github.com/voyagent/voyagent/agent/state"
)

// Weather geocodes the utterance with a model call, fetches the forecast
// for those coordinates, and narrates it. A geocoding parse failure aborts
// the turn, there is no clarification loop.
type Weather struct {
	gateway    contractx.ModelGateway
	forecaster contractx.Forecaster
}

func NewWeather(gateway contractx.ModelGateway, forecaster contractx.Forecaster) *Weather {
	return &Weather{gateway: gateway, forecaster: forecaster}
}

func (k *Weather) Process(ctx context.Context, s *statex.ConversationState) *statex.ConversationState {
	located, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.LongLat, map[string]any{
		"input":        s.Input,
		"user_profile": profileBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	lat, lon, err := parseCoordinates(located)
	if err != nil {
		return s.Fail(err)
	}

	forecast, err := k.forecaster.Forecast(ctx, lat, lon)
	if err != nil {
		return s.Fail(err)
	}

	answer, err := k.gateway.Complete(ctx, contractx.TierFast, promptx.WeatherReport, map[string]any{
		"input":         s.Input,
		"search_res":    asJSON(forecast),
		"previous_chat": historyBinding(s),
	})
	if err != nil {
		return s.Fail(err)
	}

	s.FinalOutput = &statex.Output{Answer: answer}
	return s
}

func parseCoordinates(text string) (lat, lon string, err error) {
	parsed, ok := parsex.Best(text)
	if !ok {
		return "", "", fmt.Errorf("%w: location answer is not structured", contractx.ErrSchemaViolation)
	}
	m, ok := parsed.(map[string]any)
	if !ok {
		return "", "", fmt.Errorf("%w: location answer is not an object", contractx.ErrSchemaViolation)
	}
	lat = coordString(m["latitude"])
	lon = coordString(m["longitude"])
	if lat == "" || lon == "" {
		return "", "", fmt.Errorf("%w: location answer is missing coordinates", contractx.ErrSchemaViolation)
	}
	return lat, lon, nil
}

func coordString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
