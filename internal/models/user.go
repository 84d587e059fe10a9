package models

// User is a dashboard account allowed to call /api/v1.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
