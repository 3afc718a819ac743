// Package services содержит реализации сервисов токенов и паролей.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateToken = "GenerateAccessToken"
	methodValidateToken = "ValidateAccessToken"
	msgGeneratingToken  = "generating access token"
	msgTokenGenerated   = "token generated successfully"
	msgValidatingToken  = "validating token"
	msgTokenValidated   = "token validated successfully"
	msgInvalidToken     = "invalid token format"
	msgTokenExpired     = "token has expired"
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken       = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxValidating      = "validating token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService.
type ServiceJWT struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, ttl time.Duration, issuer string) services.TokenService {
	return &ServiceJWT{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
		now:       time.Now,
	}
}

// GenerateAccessToken выпускает токен с уникальным jti.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID int64) (string, entities.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGenerateToken), zap.Int64("userID", userID))
	log.Debug(ctx, msgGeneratingToken)

	if len(s.secretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", entities.TokenClaims{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", entities.TokenClaims{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated)
	return token, toDomainClaims(claims), nil
}

// ValidateAccessToken проверяет подпись, срок и издателя токена.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (entities.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateToken))
	log.Debug(ctx, msgValidatingToken)

	options := []jwt.ParserOption{jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secretKey, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return entities.TokenClaims{}, fmt.Errorf("%s: %w", errCtxValidating, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return entities.TokenClaims{}, fmt.Errorf("%s: %w", errCtxValidating, services.ErrInvalidJWTToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 || claims.ID == "" {
		log.Debug(ctx, msgInvalidToken)
		return entities.TokenClaims{}, fmt.Errorf("%s: %w", errCtxValidating, services.ErrInvalidJWTToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.Int64("userID", claims.UserID))
	return toDomainClaims(*claims), nil
}

func toDomainClaims(claims Claims) entities.TokenClaims {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return entities.TokenClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}
}
