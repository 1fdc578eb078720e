package plan

import (
	"encoding/json"
	"fmt"
)

// rawPlan defers decoding of every field so heterogeneous shapes can
// be repaired per field instead of failing the whole document
type rawPlan struct {
	Strategy     json.RawMessage `json:"strategy"`
	Schedule     json.RawMessage `json:"schedule"`
	ProTip       json.RawMessage `json:"proTip"`
	BestPostTime json.RawMessage `json:"bestPostTime"`
	Hashtags     json.RawMessage `json:"hashtags"`
}

// dayTask matches the most common shape deviation: the model returning
// schedule entries as {"day": ..., "task": ...} objects
type dayTask struct {
	Day  json.RawMessage `json:"day"`
	Task json.RawMessage `json:"task"`
}

// Normalize parses raw model output into the canonical plan schema,
// repairing common shape deviations. A missing or non-array schedule
// becomes an empty slice rather than an error; only unparseable input
// fails. The element count is not enforced against the requested day
// count. Normalize is idempotent: already-canonical output passes
// through unchanged.
func Normalize(raw string) (*Plan, error) {
	var rp rawPlan
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return nil, fmt.Errorf("failed parsing model output: %w", err)
	}

	return &Plan{
		Strategy:     asText(rp.Strategy),
		Schedule:     normalizeSchedule(rp.Schedule),
		ProTip:       asText(rp.ProTip),
		BestPostTime: asText(rp.BestPostTime),
		Hashtags:     asText(rp.Hashtags),
	}, nil
}

func normalizeSchedule(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}

	schedule := make([]string, len(items))
	for i, item := range items {
		schedule[i] = normalizeEntry(item)
	}
	return schedule
}

// normalizeEntry renders one schedule element as plain text. Three
// variants: a plain string passes through, a day/task pair becomes
// "<day>: <task>", anything else keeps its literal JSON rendering.
func normalizeEntry(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}

	var dt dayTask
	if err := json.Unmarshal(item, &dt); err == nil && dt.Day != nil && dt.Task != nil {
		return asText(dt.Day) + ": " + asText(dt.Task)
	}

	return compactJSON(item)
}

// asText coerces a raw JSON value to its plain text representation: a
// string yields its value, absent or null yields empty, everything
// else keeps its JSON rendering
func asText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return compactJSON(raw)
}

func compactJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
