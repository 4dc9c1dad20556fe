package orchestrator

import (
	"regexp"
	"strings"

	contractx "github.com/voyagent/voyagent/agent/contract"
	statex "github.com/voyagent/voyagent/agent/state"
)

const answerTag = "<answer>"

var bareURLRe = regexp.MustCompile(`(?P<url>https?://[^\s]+)`)

const playerTemplate = `<iframe width="560" height="315" src=$1 frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen></iframe>`

// shapeEnvelope turns a skill output into the caller-facing response:
// answer text after the last answer tag with marker tags stripped, the
// bold-word list, the cart items with quantities normalized, and any link
// or video reference rewritten into embeddable player markup.
func shapeEnvelope(out *statex.Output) contractx.Envelope {
	if out == nil {
		out = &statex.Output{}
	}

	answer := out.Answer
	if idx := strings.LastIndex(answer, answerTag); idx >= 0 {
		answer = answer[idx+len(answerTag):]
	}
	answer = strings.ReplaceAll(answer, "</answer>", "")
	answer = strings.ReplaceAll(answer, "<highlight link>", "")
	answer = strings.ReplaceAll(answer, "</highlight link>", "")

	env := contractx.Envelope{
		PromptResponse: answer,
		WordsToBold:    out.WordsToBold,
	}
	if env.WordsToBold == nil {
		env.WordsToBold = []string{}
	}

	if out.HasAsins {
		entries := make([]contractx.CartEntry, 0, len(out.Asins))
		for _, item := range out.Asins {
			qty := item.Qty
			if qty < 1 {
				qty = 1
			}
			entries = append(entries, contractx.CartEntry{Qty: qty, ASIN: item.ASIN})
		}
		env.CartItemsList = entries
	}

	switch {
	case out.Link != "":
		env.PromptTitle = videoMarkdown(out.Link)
	case out.VideoData != "":
		env.PromptTitle = videoMarkdown(out.VideoData)
	}

	return env
}

// videoMarkdown wraps every bare URL in text with the fixed embeddable
// player markup.
func videoMarkdown(text string) string {
	return bareURLRe.ReplaceAllString(text, playerTemplate)
}
