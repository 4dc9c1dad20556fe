// Package parse recovers structured data from unstructured model output.
// Strategies run in a fixed fallback order and the first success wins; a
// total miss is "no structured data", never an error.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy attempts one recovery approach. ok is false when the text does
// not yield a value under this strategy.
type Strategy struct {
	Name  string
	Apply func(text string) (value any, ok bool)
}

// Strategies is the ordered fallback chain: strict JSON, fenced or
// brace-delimited JSON, permissive literal, key:value extraction.
var Strategies = []Strategy{
	{Name: "strict_json", Apply: strictJSON},
	{Name: "embedded_json", Apply: embeddedJSON},
	{Name: "literal", Apply: permissiveLiteral},
	{Name: "key_value", Apply: keyValuePairs},
}

// Best runs the strategy chain and returns the first successful parse.
func Best(text string) (any, bool) {
	for _, s := range Strategies {
		if v, ok := s.Apply(text); ok {
			return v, true
		}
	}
	return nil, false
}

func strictJSON(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, false
	}
	return v, true
}

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	braceBlockRe  = regexp.MustCompile(`\{[\s\S]*\}`)
	bracketRe     = regexp.MustCompile(`\[[\s\S]*\]`)
)

func embeddedJSON(text string) (any, bool) {
	candidates := []string{}
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := braceBlockRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	if m := bracketRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	for _, c := range candidates {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(c)), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// permissiveLiteral accepts the literal-structure variants a model tends to
// emit: single-quoted strings, trailing commas, True/False/None.
func permissiveLiteral(text string) (any, bool) {
	normalized := normalizeLiteral(strings.TrimSpace(text))
	var v any
	if err := json.Unmarshal([]byte(normalized), &v); err != nil {
		return nil, false
	}
	return v, true
}

func normalizeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (inDouble || inSingle):
			b.WriteByte(c)
			i++
			b.WriteByte(s[i])
		case c == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteByte(c)
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	out := b.String()
	out = trailingCommaRe.ReplaceAllString(out, "$1")
	out = strings.NewReplacer("True", "true", "False", "false", "None", "null").Replace(out)
	return out
}

var keyValueRe = regexp.MustCompile(`(\w+)\s*[:=]\s*([^,}\s]+)`)

func keyValuePairs(text string) (any, bool) {
	matches := keyValueRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}
	out := make(map[string]any, len(matches))
	for _, m := range matches {
		out[m[1]] = strings.Trim(m[2], `"'`)
	}
	return out, true
}

var taggedListRe = regexp.MustCompile(`<python>([\s\S]*?)</python>`)

// TaggedList extracts the content between <python> tags and parses it as a
// literal list of strings. Absent tags or unparseable content yield nil.
func TaggedList(text string) []string {
	m := taggedListRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, ok := permissiveLiteral(strings.TrimSpace(m[1]))
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
