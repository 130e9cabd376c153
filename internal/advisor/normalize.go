package advisor

import (
	"encoding/json"
	"strings"

	"advisor-backend/internal/llm"
)

// Candidate is a recommendation entry pulled from the model output before
// scoring. Fields keeps every key the model produced so unknown fields pass
// through to the response untouched.
type Candidate struct {
	Name     string
	Category string
	Fields   map[string]any
}

// ParsedAnalysis is the decoded model output: the full top-level object plus
// the recommendation candidates that survived filtering.
type ParsedAnalysis struct {
	Envelope   map[string]any
	Candidates []Candidate
}

// ParseCompletion extracts the JSON object from a raw completion, repairing
// truncation when the provider stopped at the token limit, and filters the
// recommendations down to entries usable by the scorer.
func ParseCompletion(completion llm.Completion) (*ParsedAnalysis, error) {
	jsonStr, ok := extractJSONSpan(completion.Text)
	if !ok {
		return nil, &ParseError{Reason: "no JSON found in response", Snippet: snippet(completion.Text)}
	}
	if completion.FinishReason == llm.FinishLength {
		jsonStr = repairTruncated(jsonStr)
	}

	var envelope map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		return nil, &ParseError{Reason: err.Error(), Snippet: snippet(completion.Text)}
	}

	rawRecs, ok := envelope["recommendations"].([]any)
	if !ok {
		return nil, &ShapeError{Reason: "missing recommendations array"}
	}

	candidates := make([]Candidate, 0, len(rawRecs))
	for _, raw := range rawRecs {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := fields["name"].(string)
		category, _ := fields["category"].(string)
		if name == "" || category == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:     name,
			Category: category,
			Fields:   fields,
		})
	}

	return &ParsedAnalysis{Envelope: envelope, Candidates: candidates}, nil
}

// extractJSONSpan returns the substring from the first '{' through the last
// '}', or the tail from the first '{' when no closing brace exists (the
// truncated case).
func extractJSONSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return text[start:], true
	}
	return text[start : end+1], true
}

// repairTruncated makes a best effort at turning a truncated JSON document
// back into a parseable one. It scans the text with a string-aware tokenizer,
// remembers the last position where a value was complete, discards the
// trailing incomplete fragment, and closes every still-open container. Braces
// and brackets inside string literals never affect the container stack.
func repairTruncated(s string) string {
	const (
		expectFirst = iota // just opened container (or document start)
		expectColon        // object: key consumed
		expectValue        // object: colon consumed
		afterValue         // complete value, expecting ',' or close
	)

	var stack []byte     // open containers, innermost last
	var cutStack []byte  // stack snapshot at the cut point
	cut := 0             // end of the last complete value
	state := expectFirst // state within the current container

	markCut := func(pos int) {
		cut = pos
		cutStack = append(cutStack[:0], stack...)
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			end, closed := scanString(s, i)
			i = end
			if !closed {
				i = len(s)
				break
			}
			if len(stack) > 0 && stack[len(stack)-1] == '{' && state == expectFirst {
				state = expectColon
			} else {
				state = afterValue
				markCut(i)
			}
		case c == ':':
			state = expectValue
			i++
		case c == ',':
			state = expectFirst
			i++
		case c == '{' || c == '[':
			stack = append(stack, c)
			state = expectFirst
			i++
			markCut(i)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			state = afterValue
			i++
			markCut(i)
		default:
			// number, true, false, null
			end := i
			for end < len(s) && !isDelimiter(s[end]) {
				end++
			}
			i = end
			if end < len(s) {
				// primitive followed by a delimiter is complete
				state = afterValue
				markCut(end)
			}
			// a primitive running into end-of-input may itself be cut
			// short, so it is not a safe cut point
		}
	}

	out := strings.TrimRight(s[:cut], " \t\n\r")
	out = strings.TrimSuffix(out, ",")
	for j := len(cutStack) - 1; j >= 0; j-- {
		if cutStack[j] == '{' {
			out += "}"
		} else {
			out += "]"
		}
	}
	return out
}

// scanString advances past a JSON string literal starting at s[start]=='"'.
// It returns the index just past the closing quote and whether the string was
// terminated before end-of-input.
func scanString(s string, start int) (int, bool) {
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, true
		default:
			i++
		}
	}
	return len(s), false
}

func isDelimiter(c byte) bool {
	switch c {
	case ',', '}', ']', ':', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
