package domain

import "errors"

var (
	// ErrUserNotFound is returned by user stores when no record matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already taken")
)

// User is owned exclusively by the user directory. Stores hand out copies;
// callers never mutate a stored record directly.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	PasswordHash     string   `json:"-"`
	Preferences      []string `json:"preferences"`
	ReadArticles     []string `json:"readArticles"`
	FavoriteArticles []string `json:"favoriteArticles"`
}

// NewUser holds the fields required to create a user record.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Preferences  []string
}

// UserPatch carries optional field updates; nil fields are left untouched.
type UserPatch struct {
	Name        *string
	Preferences *[]string
}

// Clone returns a deep copy so store internals cannot be mutated through
// returned records.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Preferences = append([]string{}, u.Preferences...)
	c.ReadArticles = append([]string{}, u.ReadArticles...)
	c.FavoriteArticles = append([]string{}, u.FavoriteArticles...)
	return &c
}
