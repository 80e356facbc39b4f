package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service verifies bearer tokens issued by the authentication provider. The
// subject and, when the provider vouches for it, the email address are the
// only claims this service trusts.
type Service struct {
	secret []byte
	ttl    time.Duration
}

type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwtlib.RegisteredClaims
}

// Identity is what a verified token says about its bearer. VerifiedEmail is
// empty unless the provider marked the email as verified.
type Identity struct {
	Subject       string
	VerifiedEmail string
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken mints a token for userID. Used by the seed command and tests.
func (s *Service) GenerateToken(userID string) (string, error) {
	return s.sign(Claims{}, userID)
}

// GenerateVerifiedToken mints a token whose email is marked verified.
func (s *Service) GenerateVerifiedToken(userID, email string) (string, error) {
	return s.sign(Claims{Email: email, EmailVerified: true}, userID)
}

func (s *Service) sign(claims Claims, userID string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses tokenStr and returns the bearer's identity.
func (s *Service) ValidateToken(tokenStr string) (Identity, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return Identity{}, ErrInvalidToken
	}
	id := Identity{Subject: subject}
	if claims.EmailVerified {
		id.VerifiedEmail = strings.TrimSpace(claims.Email)
	}
	return id, nil
}
