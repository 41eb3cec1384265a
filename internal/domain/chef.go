package domain

import "time"

// Chef is the account entity. Username is unique across all chefs.
type Chef struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	DateOfBirth  time.Time
	PhotoPath    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the handle threaded through authorized operations.
func (c *Chef) Identity() Identity {
	return Identity{ChefID: c.ID, Username: c.Username}
}
