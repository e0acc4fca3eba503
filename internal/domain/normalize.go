package domain

import "strings"

// normalizeEnum lowercases a user-supplied enum string and collapses spaces
// and dashes to underscores, so "For Approval" and "for-approval" both map
// to "for_approval".
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func normalizeEnumUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
