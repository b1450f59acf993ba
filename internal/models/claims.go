package models

import "github.com/golang-jwt/jwt/v5"

const RoleAdmin = "admin"

// Claims is the token payload the admin guard verifies. Token issuance is
// owned by the identity service, not this process.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
