package domain

// User is the identity a token acts on behalf of. Users are provisioned
// externally; only the id is referenced by tokens.
type User struct {
	ID           string
	EmailAddress string
}

// UserID returns the user's stable external identity.
func (u User) UserID() string { return u.ID }
