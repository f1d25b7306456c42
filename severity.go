package insightslog

import (
	"fmt"
	"strings"

	"github.com/microsoft/ApplicationInsights-Go/appinsights/contracts"
)

// Severity is the Application Insights severity scale. Values match
// contracts.SeverityLevel so they convert without a lookup.
type Severity int

const (
	Verbose     = Severity(contracts.Verbose)
	Information = Severity(contracts.Information)
	Warning     = Severity(contracts.Warning)
	Error       = Severity(contracts.Error)
	Critical    = Severity(contracts.Critical)
)

// DefaultLevel is used when Options.Level is empty.
const DefaultLevel = "info"

var severities = map[string]Severity{
	"emerg":   Critical,
	"alert":   Critical,
	"crit":    Critical,
	"error":   Error,
	"warning": Warning,
	"warn":    Warning,
	"notice":  Information,
	"info":    Information,
	"verbose": Verbose,
	"debug":   Verbose,
	"silly":   Verbose,
}

// SeverityOf maps a level name onto the backend scale. Unknown names map to
// Information.
func SeverityOf(level string) Severity {
	if s, ok := severities[level]; ok {
		return s
	}
	return Information
}

// KnownLevel reports whether level is one of the names SeverityOf recognises.
func KnownLevel(level string) bool {
	_, ok := severities[level]
	return ok
}

func (s Severity) String() string {
	switch s {
	case Verbose:
		return "Verbose"
	case Information:
		return "Information"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Critical:
		return "Critical"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) contract() contracts.SeverityLevel {
	return contracts.SeverityLevel(s)
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
