package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/allisson/remediation/internal/remediation/domain"
)

const systemRules = `You are a process-plant remediation assistant.

Rules:
1. Use only the manual snippet, anomaly data and metadata provided below. Never invent equipment names, causes, actions, values, links or sensor numbers.
2. WARNING events: use the process variable groups, the SPE/T2 readings and the history only.
   - SPE high means a single-sensor outlier. T2 high means a multivariate pattern change. Both high means overall process instability.
   - Group mapping: A (FEED) XMEAS 1-7, B (REACTOR) XMEAS 8-20, C (SEPARATOR) XMEAS 21-30, D (OUTPUT/STORAGE) XMEAS 31-41, E (MANIPULATED) XMV 1-11.
3. ALARM events: use the alarm code and the matching manual section (immediate, corrective and preventive actions) only.
4. Raw data may only be described as "trend change" or "no trend change".
5. When the material does not cover something, answer "no data".

Respond with a single JSON object and nothing else:
{"summary": "<one line>", "steps": [{"order": 1, "action": "<action>", "note": "<manual reference>"}], "confidence": "low|medium|high"}`

// buildPrompt renders the user prompt for a payload. Only the first excerptChars
// characters of the manual are included.
func buildPrompt(payload domain.Payload, manualText string, excerptChars int) string {
	traceID := payload.TraceID
	if traceID == "" {
		traceID = "unknown-trace"
	}
	eventType := strings.ToUpper(payload.MetadataString("event_type"))
	if eventType == "" {
		eventType = "UNKNOWN"
	}
	message := ""
	if payload.Message != nil {
		message = *payload.Message
	}

	var b strings.Builder
	b.WriteString(systemRules)
	b.WriteString("\n-----\n")
	fmt.Fprintf(&b, "[TRACE_ID]: %s\n", traceID)
	fmt.Fprintf(&b, "[EVENT_TYPE]: %s\n", eventType)
	fmt.Fprintf(&b, "[MESSAGE]: %s\n", message)
	fmt.Fprintf(&b, "[ANOMALY DATA]:\n%s\n", indentJSON(payload.Anomaly))
	fmt.Fprintf(&b, "[AI ERROR DATA]:\n%s\n", indentJSON(payload.AIError))
	fmt.Fprintf(&b, "[METADATA]:\n%s\n", indentJSON(payload.Metadata))
	fmt.Fprintf(&b, "[MANUAL SNIPPET]:\n%s\n", truncateRunes(manualText, excerptChars))
	b.WriteString("-----\n")
	b.WriteString("Fill the response using only the material above.\n")
	return b.String()
}

func indentJSON(v map[string]any) string {
	if v == nil {
		v = map[string]any{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// truncateRunes cuts s to at most n characters without splitting a multi-byte rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
