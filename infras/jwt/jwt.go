package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/session"
	"hotel/shared/timezone"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrRevokedToken = errors.New("token has been revoked")
)

const (
	cacheKeyRevoked = "session:revoked"
	cacheKeyEnded   = "session:ended"
	bearerPrefix    = "Bearer "
	revokedMarker   = "1"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	// SessionID is shared by every pair issued from one sign-in, refreshes included.
	SessionID string    `json:"session_id,omitempty"`
	Type      TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Session converts validated claims into the value carried on the request context.
func (c *Claims) Session() session.Session {
	sess := session.Session{
		UserID:    c.UserID,
		Email:     c.Email,
		Role:      c.Role,
		TokenID:   c.TokenID,
		SessionID: c.SessionID,
	}

	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}

	return sess
}

// ClaimsFromSession rebuilds the claims needed to revoke a session's token.
func ClaimsFromSession(sess session.Session) *Claims {
	return &Claims{
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		TokenID:   sess.TokenID,
		SessionID: sess.SessionID,
		Type:      AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			ID:        sess.TokenID,
		},
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, claims *Claims) error
	EndSession(ctx context.Context, claims *Claims) error
}

type Service struct {
	config *config.Config
	cache  cache.RedisCache
}

func New(cfg *config.Config, redisCache cache.RedisCache) JWT {
	return &Service{
		config: cfg,
		cache:  redisCache,
	}
}

// GenerateTokenPair starts a new session.
func (s *Service) GenerateTokenPair(_ context.Context, userID, email, role string) (*TokenPair, error) {
	return s.issuePair(&Claims{UserID: userID, Email: email, Role: role, SessionID: uuid.NewString()})
}

func (s *Service) issuePair(owner *Claims) (*TokenPair, error) {
	now := timezone.Now()

	accessToken, err := s.generateToken(owner, AccessToken, now, s.config.JWT.AccessExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(owner, RefreshToken, now, s.config.JWT.RefreshExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    strings.TrimSpace(bearerPrefix),
		ExpiresIn:    int64(s.config.JWT.AccessExpireMin * constant.MinutesToSeconds),
	}, nil
}

func (s *Service) secret(tokenType TokenType) (string, error) {
	switch tokenType {
	case AccessToken:
		return s.config.JWT.AccessSecret, nil
	case RefreshToken:
		return s.config.JWT.RefreshSecret, nil
	default:
		return constant.Empty, fmt.Errorf("unknown token type: %s", tokenType)
	}
}

func (s *Service) generateToken(owner *Claims, tokenType TokenType, issuedAt time.Time, expireMin int) (string, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return constant.Empty, err
	}

	tokenID := uuid.NewString()
	claims := Claims{
		UserID:    owner.UserID,
		Email:     owner.Email,
		Role:      owner.Role,
		TokenID:   tokenID,
		SessionID: owner.SessionID,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Duration(expireMin) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   owner.UserID,
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != tokenType {
		return nil, ErrInvalidClaim
	}

	keys := []string{shared.BuildCacheKey(cacheKeyRevoked, claims.TokenID)}
	if claims.SessionID != constant.Empty {
		keys = append(keys, shared.BuildCacheKey(cacheKeyEnded, claims.SessionID))
	}

	for _, key := range keys {
		revoked, err := s.cache.Exists(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("token_id", claims.TokenID).Msg("failed to check token revocation")

			return nil, ErrInvalidToken
		}

		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return claims, nil
}

// RefreshTokens rotates the pair within the same session. The presented
// refresh token is revoked so it cannot be replayed.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(ctx, refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if err = s.Revoke(ctx, claims); err != nil {
		return nil, err
	}

	if claims.SessionID == constant.Empty {
		return s.GenerateTokenPair(ctx, claims.UserID, claims.Email, claims.Role)
	}

	return s.issuePair(claims)
}

// Revoke marks the token id revoked until the token would have expired.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.Session().TTL(timezone.Now())
	if ttl <= 0 {
		return nil
	}

	seconds := max(int(ttl.Round(time.Second)/time.Second), 1)

	err := s.cache.Save(ctx, shared.BuildCacheKey(cacheKeyRevoked, claims.TokenID), revokedMarker, seconds)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// EndSession revokes the presented token and every other token of its
// session. The marker lives as long as a refresh token issued now would.
func (s *Service) EndSession(ctx context.Context, claims *Claims) error {
	if err := s.Revoke(ctx, claims); err != nil {
		return err
	}

	if claims.SessionID == constant.Empty {
		return nil
	}

	seconds := max(s.config.JWT.RefreshExpireMin*constant.MinutesToSeconds, 1)

	err := s.cache.Save(ctx, shared.BuildCacheKey(cacheKeyEnded, claims.SessionID), revokedMarker, seconds)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == constant.Empty {
		return constant.Empty, errors.New("authorization header is required")
	}

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || token == constant.Empty {
		return constant.Empty, errors.New("authorization header must start with 'Bearer '")
	}

	return token, nil
}
