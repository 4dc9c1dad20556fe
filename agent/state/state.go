package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

// contextWindow is the fixed number of most-recent turns fed to the model.
const contextWindow = 20

// Turn is one chat history entry. Speaker is "user" or "bot".
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Time    int64  `json:"time"`
}

// Output is the structured result exactly one skill produces per turn.
type Output struct {
	Answer      string         `json:"answer"`
	WordsToBold []string       `json:"words_to_bold,omitempty"`
	Asins       []WishlistItem `json:"asins,omitempty"`
	HasAsins    bool           `json:"-"`
	Link        string         `json:"link,omitempty"`
	Links       []string       `json:"links,omitempty"`
	VideoData   string         `json:"video_data,omitempty"`
}

// ConversationState is threaded through one full turn: the router sets Next,
// exactly one skill sets FinalOutput, the orchestrator owns persistence.
// ChatHistory is a read-only snapshot for skills; only the orchestrator
// appends the new turn after the skill returns.
type ConversationState struct {
	Input          string
	ChatHistory    []Turn
	UserProfile    map[string]any
	ConversationID string
	UserID         string
	FinalOutput    *Output
	Next           contractx.Route
	Err            string
}

// RecentHistory returns the last 20 turns, or the whole history when it is
// shorter than the window.
func (s *ConversationState) RecentHistory() []Turn {
	if len(s.ChatHistory) <= contextWindow {
		return s.ChatHistory
	}
	return s.ChatHistory[len(s.ChatHistory)-contextWindow:]
}

// Fail records an error on the state and produces the uniform error-shaped
// answer so a turn always completes with a well-formed output.
func (s *ConversationState) Fail(err error) *ConversationState {
	s.Err = err.Error()
	s.FinalOutput = &Output{Answer: "Error: " + err.Error()}
	return s
}

// WishlistItem is one persisted cart entry. Two items are the same only if
// every field matches exactly.
type WishlistItem struct {
	ASIN  string `json:"asin"`
	Qty   int    `json:"qty"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// UnmarshalJSON tolerates qty arriving as a string or a number, as model
// output and legacy records do, and defaults it to 1.
func (w *WishlistItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ASIN  string          `json:"asin"`
		Qty   json.RawMessage `json:"qty"`
		Title string          `json:"title"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.ASIN = raw.ASIN
	w.Title = raw.Title
	w.Qty = qtyFromRaw(raw.Qty)
	w.Price = scalarString(raw.Price)
	return nil
}

func qtyFromRaw(raw json.RawMessage) int {
	s := scalarString(raw)
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && f > 0 {
		return int(f)
	}
	return 1
}

func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Trim(string(raw), `"`)
}

// dedupKey is the full sorted-field tuple: asin, price, qty, title.
func (w WishlistItem) dedupKey() string {
	return fmt.Sprintf("asin=%s|price=%s|qty=%d|title=%s", w.ASIN, w.Price, w.Qty, w.Title)
}

// Dedup removes exact duplicates, keeping the first occurrence of each full
// field tuple in input order.
func Dedup(items []WishlistItem) []WishlistItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]WishlistItem, 0, len(items))
	for _, it := range items {
		key := it.dedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// ItemsFromAny converts parser output (a slice of loosely-typed maps) into
// wishlist items, normalizing qty and skipping entries with no asin.
func ItemsFromAny(v any) []WishlistItem {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]WishlistItem, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		it := WishlistItem{
			ASIN:  anyString(m["asin"]),
			Title: anyString(m["title"]),
			Price: anyString(m["price"]),
			Qty:   anyQty(m["qty"]),
		}
		if it.ASIN == "" && it.Title == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}

func anyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func anyQty(v any) int {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return int(t)
		}
	case int:
		if t > 0 {
			return t
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
