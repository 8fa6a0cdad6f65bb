package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
)

// MockCompleter answers from keyword rules so local runs produce plausible
// extractions and guides without a provider.
type MockCompleter struct{}

func (MockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.JSON {
		return mockExtraction(req.Prompt), nil
	}
	steps := []string{
		"Stay where you are safe and keep your phone charged and nearby.",
		"Signal your location to responders with light or sound if you can do so safely.",
		"Keep everyone with you together and note any injuries to report when help arrives.",
	}
	if strings.Contains(strings.ToLower(req.Prompt), "responder") {
		steps = []string{
			"Confirm the route and check for hazards before you approach the location.",
			"Announce yourself on arrival and assess the scene before making contact.",
			"Prioritise anyone trapped or injured and report status updates as you go.",
		}
	}
	return "- " + strings.Join(steps, "\n- "), nil
}

func mockExtraction(prompt string) string {
	text := strings.ToLower(userText(prompt))

	out := map[string]any{
		"description":           strings.TrimSpace(firstN(userText(prompt), 200)),
		"people_count":          nil,
		"mobility_status":       nil,
		"vulnerability_factors": []string{},
		"urgency":               "high",
		"danger_level":          "severe",
	}
	switch {
	case containsAny(text, "trapped", "stuck", "can't get out", "cannot get out"):
		out["mobility_status"] = "trapped"
		out["urgency"] = "critical"
		out["danger_level"] = "life_threatening"
	case containsAny(text, "injured", "hurt", "bleeding", "broken"):
		out["mobility_status"] = "injured"
	case containsAny(text, "safe", "walking", "can move"):
		out["mobility_status"] = "mobile"
		out["urgency"] = "medium"
		out["danger_level"] = "moderate"
	}

	var factors []string
	if containsAny(text, "elderly", "grandma", "grandpa", "grandmother", "grandfather", "old man", "old woman") {
		factors = append(factors, "elderly")
	}
	if containsAny(text, "child", "kids", "baby") {
		factors = append(factors, "children_present")
	}
	if containsAny(text, "insulin", "medication", "oxygen", "medical") {
		factors = append(factors, "medical_needs")
	}
	if containsAny(text, "wheelchair", "disabled", "disability") {
		factors = append(factors, "disability")
	}
	if strings.Contains(text, "pregnant") {
		factors = append(factors, "pregnant")
	}
	if factors != nil {
		out["vulnerability_factors"] = factors
	}
	out["reasoning"] = fmt.Sprintf("Marked as %s urgency and %s danger from the reported situation.", out["urgency"], out["danger_level"])

	b, _ := json.Marshal(out)
	return string(b)
}

// MockSearcher returns a stable set of results per query.
type MockSearcher struct{}

func (MockSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	topics := []string{"Shelter in place", "Signalling for rescue", "First aid basics", "Flood safety", "Fire evacuation"}
	h := hashString(query)
	out := make([]SearchResult, 0, maxResults)
	for i := 0; i < maxResults && i < len(topics); i++ {
		topic := topics[(int(h%uint64(len(topics)))+i)%len(topics)]
		out = append(out, SearchResult{
			Title:   topic,
			Snippet: fmt.Sprintf("Guidance on %s relevant to: %s", strings.ToLower(topic), query),
			Source:  "mock",
		})
	}
	return out, nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func userText(prompt string) string {
	const marker = "User text:"
	i := strings.Index(prompt, marker)
	if i < 0 {
		return prompt
	}
	rest := prompt[i+len(marker):]
	if j := strings.Index(rest, "\n"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
