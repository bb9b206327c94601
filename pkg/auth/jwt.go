package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTService interface {
	GenerateToken(user *model.User) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTService(secret string, expiry time.Duration, issuer string) JWTService {
	return &jwtService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

type claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
	jwt.RegisteredClaims
}

func (s *jwtService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	c := claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	if user.ClinicID != nil {
		c.ClinicID = user.ClinicID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	out := &model.TokenClaims{
		UserID: userID,
		Email:  c.Email,
		Role:   model.Role(c.Role),
	}
	if c.ClinicID != "" {
		clinicID, err := uuid.Parse(c.ClinicID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		out.ClinicID = &clinicID
	}
	return out, nil
}
