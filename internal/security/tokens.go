package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposePasswordReset is the only purpose claim a reset token may carry.
const PurposePasswordReset = "password_reset"

var (
	// ErrInvalidToken is returned when a token is malformed, expired or signed for someone else.
	ErrInvalidToken = errors.New("invalid token")
)

// ResetClaims holds JWT claims for a password-reset token. Subject is the account email.
type ResetClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// TokenProvider issues and validates password-reset JWTs using RS256 or ES256.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, resetTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		resetTTL:   resetTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GenerateEphemeralKey returns a fresh ECDSA P-256 key pair. Tokens signed with it
// do not survive a restart.
func GenerateEphemeralKey() (crypto.Signer, crypto.PublicKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return key, key.Public(), nil
}

// IssueReset issues a reset token bound to email. Returns the token and its expiration time.
func (p *TokenProvider) IssueReset(email string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now()
	expiresAt = now.Add(p.resetTTL)
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   email,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose: PurposePasswordReset,
	}
	token, err = p.sign(claims)
	return token, expiresAt, err
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

// ValidateReset parses and validates a reset token (signature, exp, iss, aud, purpose).
// Returns the email it was issued for.
func (p *TokenProvider) ValidateReset(tokenString string) (email string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Purpose != PurposePasswordReset || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
