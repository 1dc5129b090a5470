package llm

import (
	"regexp"
	"strings"
)

// Pre-compiled regex patterns for JSON extraction from LLM responses.
var (
	// jsonArrayBlockPattern matches JSON arrays inside markdown code blocks.
	jsonArrayBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	// jsonArrayPattern matches any JSON array (greedy fallback).
	jsonArrayPattern = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONArray extracts a JSON array from an LLM response string.
// It handles markdown code fences, JavaScript-style comments, and trailing
// commas, all of which models commonly emit around otherwise valid JSON.
// Returns the empty string when no array is present.
func ExtractJSONArray(content string) string {
	// Try markdown code block first
	if matches := jsonArrayBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return cleanJSON(matches[1])
	}
	// Fallback to raw array
	if match := jsonArrayPattern.FindString(content); match != "" {
		return cleanJSON(match)
	}
	return ""
}

// cleanJSON removes JavaScript-style comments and trailing commas.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")

	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line, respecting string
// values (a URL inside a string must survive).
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
