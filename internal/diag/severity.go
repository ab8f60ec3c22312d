package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevDeprecation marks legacy syntax that still works but has a migration.
	SevDeprecation
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevDeprecation:
		return "DEPRECATION"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
