// File: internal/services/chatsvc/resolution.go
package chatsvc

import (
	"errors"

	"github.com/bookmyseva/backend/internal/domain"
)

var ErrNoIdentity = errors.New("no identity supplied")

// Identity is the resolved lookup key for a chat session: exactly one of
// user id, guest id or connection id, chosen by the fixed priority order.
type Identity struct {
	Kind  domain.IdentityKind
	Value string
}

// ResolveIdentity picks the session identity from the optional fields a
// connection supplies. The order is strict and load-bearing: a logged-in
// user who still carries a legacy guest id must always resolve to the
// user identity.
func ResolveIdentity(userID, guestID, connectionID string) (Identity, error) {
	switch {
	case userID != "":
		return Identity{Kind: domain.IdentityUser, Value: userID}, nil
	case guestID != "":
		return Identity{Kind: domain.IdentityGuest, Value: guestID}, nil
	case connectionID != "":
		return Identity{Kind: domain.IdentityConnection, Value: connectionID}, nil
	default:
		return Identity{}, ErrNoIdentity
	}
}

// RoomName is the broadcast group a connection with this identity joins.
// It matches the identity value, so a provisional room opened before the
// session row exists stays valid after lazy creation.
func (i Identity) RoomName() string { return i.Value }
