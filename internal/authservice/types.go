package authservice

import "github.com/golang-jwt/jwt/v5"

// Identity is the verified output of a bearer credential. Subject is the
// stable identifier issued by the identity provider; Email and Username are
// profile claim defaults used to seed a directory entry on first contact.
type Identity struct {
	Subject  string
	Session  string
	Email    string
	Username string
	Claims   jwt.MapClaims
}

// AnonymousIdentity represents an unauthenticated request.
var AnonymousIdentity = Identity{}

func (i *Identity) IsAnonymous() bool {
	return i == &AnonymousIdentity
}

type TokenVerifier struct {
	secret []byte
	issuer string
}
