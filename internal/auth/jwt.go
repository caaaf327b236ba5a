// Package auth provides JWT token issuance and validation plus password hashing.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers or logs in with email/password
// 2. Server verifies the credentials and issues a JWT carrying the user's
//    id, email and username
// 3. On subsequent API calls, middleware reads the Authorization header,
//    validates the JWT, and sets the Identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (identity, expiry) is inside the signed token.
// The signature ensures nobody can tamper with it without the secret key.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data) → {"id":1,"email":"...","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server can verify the signature without any DB lookup — just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
)

// tokenTTL is how long an issued token stays valid.
const tokenTTL = 7 * 24 * time.Hour

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations — keep it safe, rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// The identity fields (id, email, username) are everything the access gate
// trusts about the caller. No secret material ever goes in here — the
// payload is only base64-encoded, not encrypted, so anyone holding the
// token can read it.
type claims struct {
	UserID   int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue creates and signs a new JWT for the given identity.
//
// Token lifetime: 7 days. After expiry, the client must log in again.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
func (s *TokenService) Issue(identity model.Identity) (string, error) {
	return s.IssueWithDuration(identity, tokenTTL)
}

// IssueWithDuration creates a token with a custom expiry duration.
// Used in tests to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(identity model.Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		UserID:   identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "bloghub",
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a JWT string and returns the Identity it encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "bloghub" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// UNIFORM FAILURE:
// Every failure mode — malformed structure, bad signature, expiry — maps to
// the same apperror.Unauthorized value. Callers (and attackers probing the
// API) cannot distinguish which check rejected the token.
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *TokenService) Verify(tokenStr string) (model.Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("bloghub"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return model.Identity{}, apperror.Unauthorized("invalid or expired token")
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.UserID == 0 {
		return model.Identity{}, apperror.Unauthorized("invalid or expired token")
	}

	return model.Identity{
		ID:       c.UserID,
		Email:    c.Email,
		Username: c.Username,
	}, nil
}
