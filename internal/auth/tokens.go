package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mixenapp/mixen-backend/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`

	jwt.RegisteredClaims
}

// TokenService issues and validates the HS256 token pair returned at
// login. Access and refresh tokens are signed with separate secrets.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

// NewTokenService builds a TokenService from config.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWT.AccessSecret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTTL,
		refreshTTL:    cfg.JWT.RefreshTTL,
		now:           time.Now,
	}
}

// IssuePair returns (access, refresh) tokens for the given user.
func (s *TokenService) IssuePair(userID uint64, username string) (string, string, error) {
	access, err := s.generate(TokenTypeAccess, userID, username, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.generate(TokenTypeRefresh, userID, "", s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateAccess parses and validates an access token.
func (s *TokenService) ValidateAccess(tokenString string) (Claims, error) {
	claims, err := s.validateWithSecret(tokenString, s.accessSecret)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != TokenTypeAccess {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) generate(tokenType string, userID uint64, username string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now().UTC()

	c := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   strconv.FormatUint(userID, 10),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(secret)
}

func (s *TokenService) validateWithSecret(tokenString string, secret []byte) (Claims, error) {
	p := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
