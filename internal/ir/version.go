package ir

// Version constants for the rule format and the tool.
const (
	// RuleFormatVersion is the rule-table schema version.
	RuleFormatVersion = "1"

	// Version is the vyakarana release version.
	Version = "0.1.0"
)
