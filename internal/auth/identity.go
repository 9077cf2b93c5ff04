package auth

import "github.com/google/uuid"

// Identity is the resolved, authenticated caller threaded explicitly through
// every service call. Its role reflects current storage state, not the token
// payload.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}
