package model

import "strings"

// SplitTokens splits a comma-separated input into trimmed tokens, dropping
// empty ones. "S, M, L" becomes ["S","M","L"]; "S,,M" becomes ["S","M"].
// Order is preserved. An empty input yields an empty slice.
func SplitTokens(s string) []string {
	tokens := []string{}
	for _, part := range strings.Split(s, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
