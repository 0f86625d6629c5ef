package session

import "strings"

// User is the authenticated profile as returned by the server.
type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Nome     string `json:"nome,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Tipo     string `json:"tipo,omitempty"`
}

// Normalize fills Name when the server omits it, falling back to the full
// name, the username, and finally the local part of the email address. A
// profile read from the server is never left without a display name unless
// every source is empty.
func (u *User) Normalize() {
	if u == nil || u.Name != "" {
		return
	}

	switch {
	case u.FullName != "":
		u.Name = u.FullName
	case u.Nome != "":
		u.Name = u.Nome
	case u.Username != "":
		u.Name = u.Username
	case u.Email != "":
		u.Name = emailLocalPart(u.Email)
	}
}

// Merge overlays non-empty fields from other onto u, preserving anything the
// server did not return.
func (u *User) Merge(other *User) {
	if other == nil {
		return
	}
	if other.ID != "" {
		u.ID = other.ID
	}
	if other.Name != "" {
		u.Name = other.Name
	}
	if other.Nome != "" {
		u.Nome = other.Nome
	}
	if other.FullName != "" {
		u.FullName = other.FullName
	}
	if other.Username != "" {
		u.Username = other.Username
	}
	if other.Email != "" {
		u.Email = other.Email
	}
	if other.Tipo != "" {
		u.Tipo = other.Tipo
	}
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
