package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beacon/backend/internal/ai"
	"github.com/beacon/backend/internal/models"
)

const (
	researchResultHint = 5
	summaryTopResults  = 3
	snippetChars       = 100
	summaryMaxChars    = 500
	nearbyRadiusKm     = 10.0

	noCaseResearch       = "No research results available. Using general emergency guidance."
	noAssignmentResearch = "No research results available. Using general responder guidance."

	extractMaxTokens = 512
	guideMaxTokens   = 300
)

const extractSystemPrompt = `You are an emergency intake agent. Read a free-text message describing an emergency and infer as much structured information as possible.
Always return JSON strictly matching this schema:
{
  "description": str (cleaned, concise summary),
  "people_count": int | null,
  "mobility_status": "mobile" | "injured" | "trapped" | null,
  "vulnerability_factors": list of ["elderly","children_present","medical_needs","disability","pregnant"],
  "urgency": "low" | "medium" | "high" | "critical",
  "danger_level": "safe" | "moderate" | "severe" | "life_threatening",
  "reasoning": str (2-3 sentences explaining the urgency and danger level)
}
Always make a best guess. If unsure, use null for optional fields, urgency = "high" and danger_level = "severe".
Do not include any extra keys or text outside the JSON.`

func extractPrompt(c models.Case) string {
	return fmt.Sprintf("User text: %s\nLocation: (%g, %g)", c.RawText, c.Lat, c.Lon)
}

func describe(c models.Case) string {
	if c.Description != nil && strings.TrimSpace(*c.Description) != "" {
		return strings.TrimSpace(*c.Description)
	}
	if strings.TrimSpace(c.RawText) != "" {
		return strings.TrimSpace(c.RawText)
	}
	return "emergency situation"
}

func mobility(c models.Case) string {
	if c.MobilityStatus != nil {
		return string(*c.MobilityStatus)
	}
	return "unknown mobility"
}

func peopleCount(c models.Case) string {
	if c.PeopleCount != nil {
		return strconv.Itoa(*c.PeopleCount)
	}
	return "unknown"
}

func researchQuery(kind Kind, c models.Case) string {
	if kind == KindAssignment {
		return fmt.Sprintf("how to assist with %s as emergency responder when victim is %s", describe(c), mobility(c))
	}
	return fmt.Sprintf("immediate actions while %s in %s during emergency", mobility(c), describe(c))
}

// summarize formats the top results as "- title: snippet" lines, or the
// fallback sentence when there are none, capped at summaryMaxChars.
func summarize(kind Kind, results []ai.SearchResult) string {
	if len(results) == 0 {
		if kind == KindAssignment {
			return noAssignmentResearch
		}
		return noCaseResearch
	}
	lines := make([]string, 0, summaryTopResults)
	for i, r := range results {
		if i == summaryTopResults {
			break
		}
		title := r.Title
		if title == "" {
			title = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", title, truncate(r.Snippet, snippetChars)))
	}
	return truncate(strings.Join(lines, "\n"), summaryMaxChars)
}

func guidePrompt(state *RunState) string {
	c := state.Case
	summary := noCaseResearch
	if state.Research != nil {
		summary = state.Research.Summary
	}

	var b strings.Builder
	if state.Task.Kind == KindAssignment {
		b.WriteString("You are an emergency response coordinator. Generate guidance for a helper responding to:\n")
		fmt.Fprintf(&b, "- Description: %s\n- Victim mobility: %s\n", describe(c), mobility(c))
	} else {
		b.WriteString("Based on this emergency situation:\n")
		fmt.Fprintf(&b, "- Description: %s\n- Mobility: %s\n", describe(c), mobility(c))
	}
	fmt.Fprintf(&b, "- Urgency: %s\n- Danger level: %s\n- People count: %s\n", c.Urgency, c.DangerLevel, peopleCount(c))
	if state.Research != nil && state.Research.Place != "" {
		fmt.Fprintf(&b, "- Location: %s\n", state.Research.Place)
	}
	if state.Task.Kind == KindAssignment && state.Research != nil && len(state.Research.NearbyCases) > 0 {
		fmt.Fprintf(&b, "- Other open cases within %g km: %d\n", nearbyRadiusKm, len(state.Research.NearbyCases))
	}
	fmt.Fprintf(&b, "\nResearch results:\n%s\n\n", summary)

	if state.Task.Kind == KindAssignment {
		b.WriteString("Generate exactly 3 actionable steps for the responder to take en route and on arrival. " +
			"Keep each step to 1-2 sentences. Focus on safety and effectiveness. Format as markdown list.")
	} else {
		b.WriteString("Generate exactly 3 actionable bullet points for the victim to follow while waiting for help. " +
			"Keep each point to 1-2 sentences. Focus on immediate safety actions. Format as markdown list.")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
