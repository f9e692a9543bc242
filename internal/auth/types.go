package auth

import "context"

// Identity holds the attributes of an authenticated account
type Identity interface {
	ID() string
	Email() string
	Role() Role
}

// TokenSubject is a minimal Identity value for minting tokens.
type TokenSubject struct {
	SubjectID    string
	SubjectEmail string
	SubjectRole  Role
}

func (t TokenSubject) ID() string    { return t.SubjectID }
func (t TokenSubject) Email() string { return t.SubjectEmail }
func (t TokenSubject) Role() Role    { return t.SubjectRole }

// AccountSource resolves a token subject to the account's current role.
// The second return reports whether the account still exists.
//
// Admin gating must read the live role: tokens are not revocable, so a role
// change after issuance is only visible through this lookup.
type AccountSource interface {
	CurrentRole(ctx context.Context, userID string) (Role, bool, error)
}
