// Package schemas defines the data structures
package schemas

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	ID          uuid.UUID `json:"id"`          // Unique identifier for the user.
	FirstName   string    `json:"firstName"`   // First name of the user.
	LastName    string    `json:"lastName"`    // Last name of the user.
	Email       string    `json:"email"`       // Email address of the user, unique.
	Password    string    `json:"-"`           // Password hash of the user.
	IsAdmin     bool      `json:"isAdmin"`     // Admins see the links of every user.
	Activated   bool      `json:"activated"`   // False until the activation link was followed.
	FpToken     string    `json:"-"`           // Password reset code, empty when unset.
	ExpireToken int64     `json:"-"`           // Expiry of FpToken in epoch milliseconds.
	CreatedAt   time.Time `json:"createdAt"`   // Timestamp when the user was created.
}

// DisplayName returns the "lastName, firstName" form used in mails and as link owner snapshot.
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s, %s", u.LastName, u.FirstName)
}

// Link represents a shortened URL owned by a user.
type Link struct {
	ID        uuid.UUID `json:"id"`        // Unique identifier for the link.
	FullUrl   string    `json:"fullUrl"`   // Redirect target.
	ShortUrl  string    `json:"shortUrl"`  // Generated short identifier.
	Clicks    int64     `json:"clicks"`    // Number of successful redirects.
	CreatedAt time.Time `json:"createdAt"` // Timestamp when the link was created.
	UserID    uuid.UUID `json:"user"`      // Identifier of the owning user.
	Username  string    `json:"username"`  // Owner name snapshot taken at creation.
}
