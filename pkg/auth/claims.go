package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/zapshift/parcel-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Role  enums.UserRole
}

// AccessTokenClaims represents the typed JWT issued to clients. Email is the
// identity claim every downstream check keys on. Role is advisory only, the
// admin gate re-reads the user record instead of trusting it.
type AccessTokenClaims struct {
	Email string         `json:"email"`
	Role  enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
