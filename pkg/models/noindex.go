package models

// NoindexSource records where a noindex directive was observed for a URL
type NoindexSource string

const (
	NoindexSourceUnset  NoindexSource = ""       // Zero value = no noindex directive seen
	NoindexSourceHeader NoindexSource = "Header" // X-Robots-Tag response header
	NoindexSourceMeta   NoindexSource = "Meta"   // <meta name="robots"> tag
	NoindexSourceBoth   NoindexSource = "Both"   // Header and meta tag both present
)

// String implements fmt.Stringer for logging
func (s NoindexSource) String() string {
	if s == "" {
		return "none"
	}
	return string(s)
}

// IsValid returns true if the source is a known value
func (s NoindexSource) IsValid() bool {
	switch s {
	case NoindexSourceHeader, NoindexSourceMeta, NoindexSourceBoth:
		return true
	}
	return false
}
