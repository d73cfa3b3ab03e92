package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chakulahub/chakula-api/config"
)

// ErrInvalidToken covers every way a token fails verification: bad
// signature, malformed structure, or past its expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

var _ TokenService = (*JWTTokenService)(nil)

// TokenService issues and verifies the signed identity tokens handed to
// clients. Tokens are stateless: validity is computable from the signature
// and expiry alone, there is no revocation store.
type TokenService interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// Claims embeds the subject user id. Nothing else durable goes in the token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTTokenService struct {
	secretKey []byte
	tokenTTL  time.Duration
	issuer    string
	// now is swapped out in tests to advance the clock.
	now func() time.Time
}

func NewJWTTokenService(cfg config.JWTConfig) *JWTTokenService {
	return &JWTTokenService{
		secretKey: []byte(cfg.SecretKey),
		tokenTTL:  cfg.TokenTTL,
		issuer:    cfg.Issuer,
		now:       time.Now,
	}
}

// Issue signs an HS256 token for userID expiring tokenTTL from now.
func (s *JWTTokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry and returns the subject user
// id. It does not consult the user directory; the auth gate does that.
func (s *JWTTokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
