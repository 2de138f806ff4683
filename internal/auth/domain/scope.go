package domain

import "strings"

// ScopeToList splits a space-delimited scope string into its tokens.
// Returns nil for an empty or whitespace-only string.
func ScopeToList(scope string) []string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}

// ListToScope joins scope tokens with single spaces.
func ListToScope(scopes []string) string {
	return strings.Join(scopes, " ")
}

// NormalizeScopes flattens scopes so every element is a single scope token.
// Elements holding several space-delimited scopes are split; empty ones are
// dropped.
func NormalizeScopes(scopes []string) []string {
	return ScopeToList(ListToScope(scopes))
}
