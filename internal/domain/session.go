package domain

// SessionKind differentiates admin and student sessions.
type SessionKind string

const (
	SessionAdmin   SessionKind = "admin"
	SessionStudent SessionKind = "student"
)

// Valid reports whether k is a known session kind.
func (k SessionKind) Valid() bool {
	return k == SessionAdmin || k == SessionStudent
}

// Session is an authenticated actor. Exactly one of Admin or Person is set,
// matching Kind.
type Session struct {
	Kind   SessionKind
	Admin  *AdminIdentity
	Person *Person
}

// SubjectID returns the identity behind the session.
func (s *Session) SubjectID() string {
	switch {
	case s == nil:
		return ""
	case s.Kind == SessionAdmin && s.Admin != nil:
		return s.Admin.ID
	case s.Kind == SessionStudent && s.Person != nil:
		return s.Person.ID
	}
	return ""
}

// IsAdmin reports whether the session is backed by an admin identity.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Kind == SessionAdmin && s.Admin != nil
}
