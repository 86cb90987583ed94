// Package model defines the core data types shared across codepad.
package model

// Severity for analysis issues.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity name back to its value. Unknown names are info.
func ParseSeverity(s string) Severity {
	switch s {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// MarshalText encodes the severity as its name so JSON payloads carry
// "error" / "warning" / "info".
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// File is one in-memory source file held by the session.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Content  string `json:"content"`
	Path     string `json:"path,omitempty"`
}

// DefaultLanguage is used when a file is created without a known language.
const DefaultLanguage = "plaintext"

// Completion defaults applied when a request leaves them unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 150
)

// CompletionRequest asks the completion provider to continue a prompt.
// A zero Temperature or MaxTokens means "use the default".
type CompletionRequest struct {
	Prompt      string  `json:"prompt" validate:"required"`
	Language    string  `json:"language"`
	Temperature float64 `json:"temperature,omitempty" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"gte=0"`
}

// WithDefaults returns a copy with unset fields filled in.
func (r CompletionRequest) WithDefaults() CompletionRequest {
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// CompletionResponse is the trimmed provider completion.
type CompletionResponse struct {
	Completion string `json:"completion"`
	Language   string `json:"language"`
}

// AnalysisRequest asks the analysis provider to review code.
type AnalysisRequest struct {
	Code     string `json:"code" validate:"maxbytes"`
	Language string `json:"language" validate:"required"`
}

// Issue is a position-anchored problem reported by analysis.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
}

// Suggestion is a position-anchored improvement reported by analysis.
type Suggestion struct {
	Message     string `json:"message"`
	Replacement string `json:"replacement,omitempty"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
}

// AuthStatus is the opaque authentication state handed to the shells.
type AuthStatus int

const (
	AuthLoading AuthStatus = iota
	AuthAuthenticated
	AuthUnauthenticated
)

func (a AuthStatus) String() string {
	switch a {
	case AuthLoading:
		return "loading"
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// User is the signed-in user, if any.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Identity is passed explicitly to the components that care who is editing.
type Identity struct {
	User   *User
	Status AuthStatus
}

// Authenticated reports whether AI operations may be issued.
func (id Identity) Authenticated() bool {
	return id.Status == AuthAuthenticated
}
