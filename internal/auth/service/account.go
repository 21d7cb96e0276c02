package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/idx"
	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// AccountService handles registration, email verification and the password
// flows. Emailed tokens are stored as digests with an expiry and consumed
// exactly once.
type AccountService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Tokens cryptox.TemporaryTokenCodec
	Mailer mailer.Dispatcher
	Links  Links
	Now    func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Role     string
}

func (in RegisterInput) validate() (domain.Role, error) {
	var p problems

	checkEmail(&p, normaliseEmail(in.Email))

	username := normaliseUsername(in.Username)
	switch {
	case username == "":
		p.add("Username is required")
	case len(username) < minUsernameLength:
		p.add("Username must be at least 3 characters")
	}

	in.Password = normalisePassword(in.Password)
	checkPassword(&p, "Password", in.Password)

	if name := strings.TrimSpace(in.FullName); name != "" && len(name) < minFullNameLength {
		p.add("Full name must be at least 3 characters")
	}

	if strings.TrimSpace(in.Role) == "" {
		p.add("Role is required")
	}
	if err := p.err(); err != nil {
		return "", err
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Register creates an unverified account and emails a verification link.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	role, err := in.validate()
	if err != nil {
		return domain.User{}, err
	}

	email := normaliseEmail(in.Email)
	username := normaliseUsername(in.Username)

	passwordHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	verify, err := s.Tokens.Generate(now)
	if err != nil {
		return domain.User{}, fmt.Errorf("mint verification token: %w", err)
	}

	user := domain.User{
		ID:                      idx.NewAt(now).String(),
		Email:                   email,
		Username:                username,
		FullName:                strings.TrimSpace(in.FullName),
		Role:                    role,
		PasswordHash:            passwordHash,
		EmailVerificationHash:   verify.Digest,
		EmailVerificationExpiry: &verify.ExpiresAt,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		taken, err := tx.Users().ExistsByEmailOrUsername(ctx, email, username)
		if err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if taken {
			return ErrConflict
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrConflict
			}
			return fmt.Errorf("create user: %w", err)
		}

		user, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)

	msg, renderErr := mailer.VerificationEmail(user.Email, user.Username, s.Links.VerifyEmail(verify.Plaintext))
	notify(ctx, s.Mailer, msg, renderErr)

	return user, nil
}

// VerifyEmail consumes a verification token. An expired token is left in
// place for housekeeping to clear.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &ValidationError{Problems: []string{"Email verification token is missing"}}
	}

	digest := cryptox.FingerprintToken(token)
	user, err := s.Store.Users().GetUserByEmailVerificationHash(ctx, digest)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("get user by verification token: %w", err)
	}

	switch s.Tokens.Check(token, user.EmailVerificationHash, user.EmailVerificationExpiry, s.now()) {
	case cryptox.TokenExpired:
		return ErrTokenExpired
	case cryptox.TokenInvalid:
		return ErrTokenInvalid
	}

	err = s.Store.Users().MarkEmailVerified(ctx, user.ID, digest)
	if errors.Is(err, store.ErrNotFound) {
		// consumed by a concurrent request
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}

	slogx.FromContext(ctx).Info("email verified", "user_id", user.ID)
	return nil
}

// ResendVerification replaces any outstanding verification token with a new
// one and emails it.
func (s *AccountService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	verify, err := s.Tokens.Generate(s.now())
	if err != nil {
		return fmt.Errorf("mint verification token: %w", err)
	}
	if err := s.Store.Users().SetEmailVerificationToken(ctx, user.ID, verify.Digest, verify.ExpiresAt); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	msg, renderErr := mailer.VerificationEmail(user.Email, user.Username, s.Links.VerifyEmail(verify.Plaintext))
	notify(ctx, s.Mailer, msg, renderErr)
	return nil
}

// ForgotPassword mints a reset token and emails the reset link.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	email = normaliseEmail(email)

	var p problems
	checkEmail(&p, email)
	if err := p.err(); err != nil {
		return err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	reset, err := s.Tokens.Generate(s.now())
	if err != nil {
		return fmt.Errorf("mint reset token: %w", err)
	}
	if err := s.Store.Users().SetPasswordResetToken(ctx, user.ID, reset.Digest, reset.ExpiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	slogx.FromContext(ctx).Info("password reset requested", "user_id", user.ID)

	msg, renderErr := mailer.PasswordResetEmail(user.Email, user.Username, s.Links.ResetPassword(reset.Plaintext))
	notify(ctx, s.Mailer, msg, renderErr)
	return nil
}

// ResetPassword consumes a reset token, sets the new password and ends any
// live session.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = normalisePassword(newPassword)

	var p problems
	if token == "" {
		p.add("Reset token is missing")
	}
	checkPassword(&p, "New password", newPassword)
	if err := p.err(); err != nil {
		return err
	}

	digest := cryptox.FingerprintToken(token)
	user, err := s.Store.Users().GetUserByPasswordResetHash(ctx, digest)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("get user by reset token: %w", err)
	}

	switch s.Tokens.Check(token, user.PasswordResetHash, user.PasswordResetExpiry, s.now()) {
	case cryptox.TokenExpired:
		return ErrTokenExpired
	case cryptox.TokenInvalid:
		return ErrTokenInvalid
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.Users().ResetPassword(ctx, user.ID, digest, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	slogx.FromContext(ctx).Info("password reset", "user_id", user.ID)
	return nil
}

type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// ChangePassword replaces the password of a logged in user after checking
// the old one. The current session stays valid.
func (s *AccountService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	in.OldPassword = normalisePassword(in.OldPassword)
	in.NewPassword = normalisePassword(in.NewPassword)

	var p problems
	if in.OldPassword == "" {
		p.add("Old password is required")
	}
	checkPassword(&p, "New password", in.NewPassword)
	if err := p.err(); err != nil {
		return err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !passwordMatches(ctx, s.Hasher, user.ID, in.OldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.Hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", user.ID)
	return nil
}

// GetUser loads a user by id.
func (s *AccountService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
