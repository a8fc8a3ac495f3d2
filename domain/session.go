package domain

// Session binds the bearer credential to the profile it was issued for.
// The two travel together: a session with only one of them is invalid and
// must be treated as absent.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Valid reports whether the session carries both halves of the pair.
func (s *Session) Valid() bool {
	return s != nil && s.User != nil && s.Token != ""
}
