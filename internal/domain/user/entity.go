package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        int64     // ID is assigned by the store on insert
	Name      string    // Name is the full name of the user
	Email     string    // Email is unique across all users
	CreatedAt time.Time // CreatedAt is set by the store at insertion time
}
