package models

import "strings"

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Username  string `json:"username"`
}

// ProfileName is the username shown in profile URLs. The backend does not
// always fill Username, in which case the local part of the email is used.
func (u User) ProfileName() string {
	if u.Username != "" {
		return u.Username
	}
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}
