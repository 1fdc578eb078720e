package llm

import (
	"fmt"
	"strings"

	"github.com/qwikplan/backend/pkg/plan"
)

const systemPrompt = "You are a strict JSON API for social media strategy. " +
	"Your output must be valid, parsable JSON. You do not converse; you only return data."

// buildUserPrompt renders the strict prompt contract: exactly req.Days
// schedule entries as plain strings, a single strategy paragraph, and
// the fixed five-field JSON shape.
func buildUserPrompt(req plan.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "INPUT DATA:\n")
	fmt.Fprintf(&b, "- Niche: %s\n", req.Niche)
	fmt.Fprintf(&b, "- Target Audience: %s\n", req.AudienceOrDefault())
	fmt.Fprintf(&b, "- Platform: %s\n", req.Platform)
	fmt.Fprintf(&b, "- Goal: %s\n\n", req.Goal)

	fmt.Fprintf(&b, "INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "Analyze the input and generate a %d-day plan.\n\n", req.Days)

	fmt.Fprintf(&b, "CRITICAL SCHEMA RULES:\n")
	fmt.Fprintf(&b, "1. \"strategy\": MUST be a STRING (text). Explain chosen Content Pillar and Psychological Trigger. Never a nested object.\n")
	fmt.Fprintf(&b, "2. \"schedule\": MUST be an ARRAY of STRINGS.\n")
	fmt.Fprintf(&b, "   - IMPORTANT: The array MUST contain exactly %d items.\n", req.Days)
	fmt.Fprintf(&b, "   - Format: \"Day X: [Verb] [Topic]\".\n")
	fmt.Fprintf(&b, "   - Do NOT output objects or empty strings. Just the array of strings.\n")
	fmt.Fprintf(&b, "3. \"proTip\": MUST be a STRING (Platform specific hack).\n")
	fmt.Fprintf(&b, "4. \"bestPostTime\": MUST be a STRING. Format: \"Days: Time\".\n")
	fmt.Fprintf(&b, "5. \"hashtags\": MUST be a STRING (10-15 tags).\n\n")

	fmt.Fprintf(&b, "GENERATION DETAILS:\n")
	fmt.Fprintf(&b, "- Strategy: Focus on specific content pillars for %s.\n", req.Niche)
	fmt.Fprintf(&b, "- Schedule: Make actions specific to %s (e.g., 'Reel' for Instagram, 'Thread' for Twitter).\n", req.Platform)
	fmt.Fprintf(&b, "- Hashtags: Mix high-volume and niche tags.\n\n")

	fmt.Fprintf(&b, "RETURN ONLY RAW JSON. NO MARKDOWN. NO CODE BLOCKS.\n\n")

	fmt.Fprintf(&b, "EXACT JSON STRUCTURE TO FOLLOW:\n")
	fmt.Fprintf(&b, "{\n")
	fmt.Fprintf(&b, "  \"strategy\": \"This week focuses on the [PILLAR] pillar...\",\n")
	fmt.Fprintf(&b, "  \"schedule\": [\n")
	for day := 1; day <= req.Days; day++ {
		comma := ","
		if day == req.Days {
			comma = ""
		}
		fmt.Fprintf(&b, "    \"Day %d: [Verb] [Specific Topic]\"%s\n", day, comma)
	}
	fmt.Fprintf(&b, "  ],\n")
	fmt.Fprintf(&b, "  \"proTip\": \"[Specific hack for %s]\",\n", req.Platform)
	fmt.Fprintf(&b, "  \"bestPostTime\": \"[Days]: [Time]\",\n")
	fmt.Fprintf(&b, "  \"hashtags\": \"#tag1 #tag2 #tag3\"\n")
	fmt.Fprintf(&b, "}\n")

	return b.String()
}
