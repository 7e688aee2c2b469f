package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
)

const tokenIssuer = "dashboards"

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTTokenService implements TokenService with HS256 tokens. The subject is the
// member's username and the display name rides along so requests never need
// the roster to know who is submitting.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenService(secret string, ttl time.Duration) TokenService {
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *JWTTokenService) Issue(user *models.User) (string, error) {
	if user == nil || user.Username == "" {
		return "", &apperrors.ErrValidation{Field: "username", Message: "is required"}
	}
	now := s.now()
	claims := sessionClaims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the member it was issued to. Any
// malformed, expired or foreign token is ErrAuthenticationFailed.
func (s *JWTTokenService) Parse(token string) (*models.User, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: session expired", apperrors.ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAuthenticationFailed, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.Issuer != tokenIssuer {
		return nil, apperrors.ErrAuthenticationFailed
	}
	return &models.User{Username: claims.Subject, Name: claims.Name}, nil
}
