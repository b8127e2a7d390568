package models

// Session is the client's record of the currently authenticated identity
// plus the access credential issued by the auth backend.
//
// A session is either fully absent or fully populated: an access token
// without an id/email never passes Populated().
type Session struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// Populated reports whether the session carries a complete identity.
func (s Session) Populated() bool {
	return s.ID != "" && s.Email != "" && s.AccessToken != ""
}
