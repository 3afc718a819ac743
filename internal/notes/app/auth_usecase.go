package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/repositories"
	svc "notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

const (
	methodRegister     = "Register"
	methodLogin        = "Login"
	methodLogout       = "Logout"
	methodAuthenticate = "Authenticate"

	msgStartRegistration   = "starting user registration"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgUserLoggedOut       = "user logged out successfully"
	msgTokenAlreadyExpired = "token already expired, nothing to revoke"
	msgRevokedTokenAttempt = "attempt to use revoked token"

	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrFindingUser       = "error finding user by email"
	msgErrVerifyingPassword = "error verifying password"
	msgErrGenerateToken     = "failed to generate access token"
	msgErrRevokeToken       = "failed to revoke access token"
	msgErrCheckRevocation   = "failed to check token revocation"

	errCtxHashingPassword   = "hashing password"
	errCtxCreatingUser      = "creating user"
	errCtxFindingUser       = "finding user"
	errCtxVerifyingPassword = "verifying password"
	errCtxGeneratingToken   = "generating token"
	errCtxRevokingToken     = "revoking token"
	errCtxValidatingToken   = "validating token"
	errCtxCheckingRevoked   = "checking revocation"

	fieldEmail    = "email"
	fieldUsername = "username"
	fieldPassword = "password"

	usernameMaxLength = 150
	minPasswordLength = 8
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

// AuthUseCase регистрация, вход и выход пользователей.
type AuthUseCase struct {
	users       repositories.UserRepository
	passwords   svc.PasswordService
	tokens      svc.TokenService
	revocations svc.RevocationStore
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	users repositories.UserRepository,
	passwords svc.PasswordService,
	tokens svc.TokenService,
	revocations svc.RevocationStore,
) *AuthUseCase {
	return &AuthUseCase{
		users:       users,
		passwords:   passwords,
		tokens:      tokens,
		revocations: revocations,
	}
}

var _ api.AuthService = (*AuthUseCase)(nil)

// Register создает пользователя и выдает access токен.
func (a *AuthUseCase) Register(ctx context.Context, email, username, password string) (api.AuthResult, error) {
	email = normalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	v := entities.NewValidationError()
	validateEmail(v, email)
	name, _ := checkText(v, fieldUsername, &username, true, usernameMaxLength)
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return api.AuthResult{}, err
	}

	hash, err := a.passwords.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user, err := a.users.Create(ctx, entities.User{Email: email, Username: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) {
			return api.AuthResult{}, entities.FieldError(fieldEmail, entities.MsgEmailTaken)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", user.ID))
	return a.issue(ctx, log, user)
}

// Login проверяет учетные данные и выдает access токен.
func (a *AuthUseCase) Login(ctx context.Context, email, password string) (api.AuthResult, error) {
	email = normalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	v := entities.NewValidationError()
	if email == "" {
		v.Add(fieldEmail, entities.MsgRequired)
	}
	if password == "" {
		v.Add(fieldPassword, entities.MsgRequired)
	}
	if err := v.Err(); err != nil {
		return api.AuthResult{}, err
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return api.AuthResult{}, entities.ErrInvalidCredentials
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwords.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.Int64("userID", user.ID))
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.Int64("userID", user.ID))
		return api.AuthResult{}, entities.ErrInvalidCredentials
	}

	log.Info(ctx, msgUserLoggedIn, zap.Int64("userID", user.ID))
	return a.issue(ctx, log, user)
}

// Logout отзывает текущий access токен до момента его истечения.
func (a *AuthUseCase) Logout(ctx context.Context, claims entities.TokenClaims) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.Int64("userID", claims.UserID))

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		log.Debug(ctx, msgTokenAlreadyExpired)
		return nil
	}

	if err := a.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		log.Error(ctx, msgErrRevokeToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// Authenticate проверяет подпись, срок действия и отзыв токена.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (entities.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate))

	claims, err := a.tokens.ValidateAccessToken(ctx, token)
	if err != nil {
		return entities.TokenClaims{}, fmt.Errorf("%s: %w: %w", errCtxValidatingToken, entities.ErrInvalidToken, err)
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		log.Error(ctx, msgErrCheckRevocation, zap.Error(err))
		return entities.TokenClaims{}, fmt.Errorf("%s: %w", errCtxCheckingRevoked, err)
	}
	if revoked {
		log.Debug(ctx, msgRevokedTokenAttempt, zap.Int64("userID", claims.UserID))
		return entities.TokenClaims{}, entities.ErrInvalidToken
	}

	return claims, nil
}

func (a *AuthUseCase) issue(ctx context.Context, log *logger.Logger, user entities.User) (api.AuthResult, error) {
	token, claims, err := a.tokens.GenerateAccessToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err), zap.Int64("userID", user.ID))
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	return api.AuthResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(v *entities.ValidationError, email string) {
	switch {
	case email == "":
		v.Add(fieldEmail, entities.MsgRequired)
	case !emailRegex.MatchString(email):
		v.Add(fieldEmail, entities.MsgInvalidEmail)
	}
}

func validatePassword(v *entities.ValidationError, password string) {
	switch {
	case password == "":
		v.Add(fieldPassword, entities.MsgRequired)
	case len(password) < minPasswordLength:
		v.Add(fieldPassword, entities.MsgPasswordShort)
	case !letterRegex.MatchString(password) || !digitRegex.MatchString(password):
		v.Add(fieldPassword, entities.MsgPasswordWeak)
	}
}
