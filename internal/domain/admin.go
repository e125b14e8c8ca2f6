package domain

import "time"

type Admin struct {
	ID        string
	Email     string
	Password  string // compared as stored; see app.PasswordMode
	CreatedAt time.Time
}

// AdminSession is the identity record issued at login and cleared at logout.
// It carries no expiry.
type AdminSession struct {
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email"`
	ID      string `json:"id"`
}
