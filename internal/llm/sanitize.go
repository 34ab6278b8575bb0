package llm

import (
	"errors"
	"strings"
)

// ExtractJSON pulls the first well-formed JSON object or array out of raw
// model output. Models regularly wrap JSON in prose or markdown code fences;
// all call sites funnel through here instead of scattering regex attempts.
func ExtractJSON(raw string) (string, error) {
	s := stripCodeFences(raw)

	start := -1
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return "", errors.New("no JSON object found in response")
	}

	openCh := s[start]
	var closeCh byte = '}'
	if openCh == '[' {
		closeCh = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == openCh:
			depth++
		case ch == closeCh:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced JSON in response")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
