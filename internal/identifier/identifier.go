// Package identifier defines the typed keys used to index sources and plugins.
//
// All three types wrap a plain string, but they are deliberately distinct:
// a Source is never a Plugin, and the compiler enforces that. The registry
// uses them as composite map keys, so the only requirement beyond
// non-emptiness is comparability.
package identifier

// Source names a configured external provider, e.g. "github".
type Source string

// Plugin names one capability within a source, e.g. "profile" or "oauth".
// Plugin identifiers are only unique within their source.
type Plugin string

// RequestType selects which kind of data a dispatch request asks for.
// The set is closed; each value corresponds to exactly one response shape.
type RequestType string

const (
	User     RequestType = "user"
	Projects RequestType = "projects"
	Posts    RequestType = "posts"
	Blurb    RequestType = "blurb"
)

func (s Source) String() string      { return string(s) }
func (p Plugin) String() string      { return string(p) }
func (t RequestType) String() string { return string(t) }

// ParseRequestType validates a path segment against the closed set.
// Unknown values return ok=false; callers map that to 404.
func ParseRequestType(s string) (RequestType, bool) {
	switch t := RequestType(s); t {
	case User, Projects, Posts, Blurb:
		return t, true
	default:
		return "", false
	}
}
