package auth // package auth provides token issuance, verification and password hashing

import (
	"errors" // sentinel errors for the two verification failure modes
	"time"   // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenTTL is how long an issued access token stays valid. Tokens are not
// persisted anywhere; expiry is the only thing that ends a session.
const TokenTTL = 10 * time.Hour

// ErrTokenInvalid is returned when a token's signature does not verify,
// the payload is malformed, or the signing algorithm is not the expected
// HMAC family. Callers must not leak which of these occurred.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is returned when a structurally valid token is past its
// expiry. Handlers collapse this with ErrTokenInvalid into a generic 401.
var ErrTokenExpired = errors.New("token expired")

// Claims are the identity facts embedded in an access token. They are
// reconstructed from the token signature on every request and never checked
// against the store, so a deleted user keeps authenticating until expiry.
type Claims struct {
	UserID uint64 // subject identifier, the sole source of ownership scoping
	Email  string // subject email at issuance time
}

// AccessToken bundles a signed token string with its expiry so handlers can
// return both to the client.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// IssueToken builds and signs an HS256 JWT for a user. The token carries the
// user id and email plus standard exp/iat claims and is valid for TokenTTL
// from now. No state is written anywhere.
func IssueToken(secret string, userID uint64, email string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(TokenTTL)
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     exp.Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a raw token string. It returns the
// embedded claims on success, ErrTokenExpired when the token is past its
// expiry, and ErrTokenInvalid for every other failure (bad signature,
// malformed payload, unexpected algorithm).
func VerifyToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but the HMAC family.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	var c Claims
	// Numeric JSON claims decode as float64.
	switch v := mc["user_id"].(type) {
	case float64:
		c.UserID = uint64(v)
	default:
		return Claims{}, ErrTokenInvalid
	}
	if c.UserID == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	return c, nil
}
