package models

// Match is a symmetric relation stored in canonical form:
// Username1 < Username2 always holds, so an unordered pair has exactly
// one row representation.
type Match struct {
	Username1 string `json:"username1"`
	Username2 string `json:"username2"`
}

// Other returns the participant that is not the given user.
func (m Match) Other(username string) string {
	if m.Username1 == username {
		return m.Username2
	}
	return m.Username1
}

// UserMatch is the client-visible view of a match: just the other
// participant's name.
type UserMatch struct {
	Name string `json:"name"`
}
