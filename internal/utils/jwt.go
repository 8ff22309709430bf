package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding functions
    "errors"        // sentinel error for failed validation
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidAccessToken is the single outcome for every access-token
// validation failure.  Malformed token, bad signature, wrong issuer or
// audience and expiry all collapse into it so callers cannot tell which
// check rejected the token.
var ErrInvalidAccessToken = errors.New("invalid access token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Access tokens are short-lived, never persisted, and carried
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims are the identity facts embedded in an access token.
type Claims struct {
    UserID   string // subject: UUID of the user
    Email    string // email claim
    Username string // username claim
}

// RefreshToken represents a long-lived opaque token used to obtain new
// access tokens.  The Raw field contains the raw token string returned to
// the client.  In the database only a SHA-256 hash of the raw string is
// stored.  The raw value is cryptographically random and carries no
// identity information; it is purely a lookup key.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT asserting a user's identity.
// Besides the identity claims (sub, email, username) the token carries the
// configured issuer and audience plus exp and iat, so validation can pin
// all four.
func NewAccessToken(secret, issuer, audience string, cl Claims, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":      cl.UserID,
        "email":    cl.Email,
        "username": cl.Username,
        "iss":      issuer,
        "aud":      audience,
        "exp":      exp.Unix(),
        "iat":      time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ValidateAccessToken verifies signature, signing method, issuer, audience
// and expiry (no clock-skew leeway) and returns the embedded identity
// claims.  Any failure returns ErrInvalidAccessToken.
func ValidateAccessToken(secret, issuer, audience, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw,
        func(t *jwt.Token) (interface{}, error) {
            if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, ErrInvalidAccessToken
            }
            return []byte(secret), nil
        },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithIssuer(issuer),
        jwt.WithAudience(audience),
        jwt.WithExpirationRequired(),
    )
    if err != nil || !tok.Valid {
        return Claims{}, ErrInvalidAccessToken
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidAccessToken
    }
    sub, _ := mc["sub"].(string)
    email, _ := mc["email"].(string)
    username, _ := mc["username"].(string)
    if sub == "" {
        return Claims{}, ErrInvalidAccessToken
    }
    return Claims{UserID: sub, Email: email, Username: username}, nil
}

// NewRefreshToken returns a cryptographically secure random token (raw) and
// its expiration time.  48 random bytes give 384 bits of entropy, encoded
// as 96 hex characters.  The ttlDays parameter controls how many days the
// refresh token is valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string.  Storing only the hash in the database prevents attackers from
// using stolen database entries to refresh sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
