package tokens

import "github.com/golang-jwt/jwt/v5"

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims carries the real role separately from the token kind, so a
// future role value can never collide with the refresh marker.
type Claims struct {
	Role string `json:"role,omitempty"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}
