package auth

import (
	"time"

	"github.com/foodsupplychain/procurement/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Role   enums.UserRole
	TTL    time.Duration
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued by the marketplace API.
// User ids are opaque strings assigned by the marketplace.
type AccessTokenClaims struct {
	UserID string         `json:"userId"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the user id, falling back to the registered sub claim.
func (c *AccessTokenClaims) SubjectID() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
