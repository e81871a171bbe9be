package users

import "time"

// User is the public listing view of an account. Password hashes never leave
// the auth package.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
