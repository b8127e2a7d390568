package models

// User is the identity record kept by the monitor backend. The who-am-i
// endpoint returns it and the manage-user page creates it.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
