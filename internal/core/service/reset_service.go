package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

const (
	resetNonceSize   = 32
	resetMailSubject = "Password reset"
)

// errResetTokenInvalid never echoes the token back to the caller.
var errResetTokenInvalid = fmt.Errorf("%w: password reset token is invalid or expired", domain.ErrNotFound)

// ResetConfig tunes the password reset workflow.
type ResetConfig struct {
	// LinkBase is the page that receives the token, e.g. https://shop/reset-password.
	LinkBase string
	// TokenTTL bounds how long a request can be completed. Zero disables expiry.
	TokenTTL time.Duration
}

// ResetService issues and consumes password reset tokens. A user holds at
// most one live token; issuing a new one replaces the previous.
type ResetService struct {
	users    ports.UserRepository
	requests ports.ResetRequestRepository
	notifier ports.Notifier
	hasher   domain.PasswordHasher
	cfg      ResetConfig
	now      func() time.Time
	random   io.Reader
	log      zerolog.Logger
}

func NewResetService(
	users ports.UserRepository,
	requests ports.ResetRequestRepository,
	notifier ports.Notifier,
	hasher domain.PasswordHasher,
	cfg ResetConfig,
	log zerolog.Logger,
) *ResetService {
	return &ResetService{
		users:    users,
		requests: requests,
		notifier: notifier,
		hasher:   hasher,
		cfg:      cfg,
		now:      time.Now,
		random:   rand.Reader,
		log:      log,
	}
}

// RequestReset resolves identifier as an email when it contains "@", as a
// username otherwise.
func (s *ResetService) RequestReset(ctx context.Context, identifier string) (*domain.PasswordResetRequest, error) {
	if strings.Contains(identifier, "@") {
		return s.RequestResetByEmail(ctx, identifier)
	}
	return s.RequestResetByUsername(ctx, identifier)
}

func (s *ResetService) RequestResetByUsername(ctx context.Context, username string) (*domain.PasswordResetRequest, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *ResetService) RequestResetByEmail(ctx context.Context, email string) (*domain.PasswordResetRequest, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *ResetService) GetRequestByUsername(ctx context.Context, username string) (*domain.PasswordResetRequest, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.requests.FindByUserID(ctx, user.ID)
}

func (s *ResetService) GetRequestByEmail(ctx context.Context, email string) (*domain.PasswordResetRequest, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.requests.FindByUserID(ctx, user.ID)
}

// CompleteReset sets a new password for the owner of token and consumes the
// request. Unknown, expired and already used tokens are all reported alike.
// When two completions race on one token both writes land and the later wins.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	req, err := s.requests.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errResetTokenInvalid
		}
		return err
	}
	if req.Expired(s.now(), s.cfg.TokenTTL) {
		if _, err := s.requests.ConsumeByToken(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to drop expired reset request")
		}
		return errResetTokenInvalid
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(s.hasher, newPassword); err != nil {
		return err
	}

	// The password is stored before the token is consumed so a failed write
	// leaves the token usable for a retry.
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if _, err := s.requests.ConsumeByToken(ctx, token); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.log.Warn().Str("username", user.Username).Msg("reset token consumed concurrently")
	}
	s.log.Info().Str("username", user.Username).Msg("password reset completed")
	return nil
}

func (s *ResetService) issue(ctx context.Context, user *domain.User) (*domain.PasswordResetRequest, error) {
	now := s.now().UTC()
	token, err := s.newToken(user, now)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.ReplaceForUser(ctx, &domain.PasswordResetRequest{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store reset request: %w", err)
	}

	if err := s.notifier.Send(ctx, user.Email, resetMailSubject, s.mailBody(user, token)); err != nil {
		// Only this token is dropped; a newer request may already have replaced it.
		if _, delErr := s.requests.ConsumeByToken(ctx, token); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
			s.log.Warn().Err(delErr).Str("user_id", user.ID).Msg("failed to drop undelivered reset request")
		}
		s.log.Error().Err(err).Str("username", user.Username).Msg("reset email not delivered")
		return nil, fmt.Errorf("send reset email: %w: %w", domain.ErrDeliveryFailed, err)
	}

	s.log.Info().Str("username", user.Username).Msg("password reset requested")
	return req, nil
}

// newToken digests the user identity, a nanosecond timestamp and a random
// nonce. The hex encoding is always 64 characters.
func (s *ResetService) newToken(user *domain.User, now time.Time) (string, error) {
	nonce := make([]byte, resetNonceSize)
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		return "", fmt.Errorf("read reset nonce: %w", err)
	}

	h := sha256.New()
	for _, part := range [][]byte{
		[]byte(user.Username),
		[]byte(user.ID),
		[]byte(strconv.FormatInt(now.UnixNano(), 10)),
		nonce,
	} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *ResetService) mailBody(user *domain.User, token string) string {
	link := s.cfg.LinkBase + "?token=" + url.QueryEscape(token)
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	return fmt.Sprintf("Hello %s,\r\n\r\n"+
		"We received a request to reset the password of your account.\r\n"+
		"Open the link below to choose a new password:\r\n\r\n%s\r\n\r\n"+
		"If you did not ask for this, you can ignore this message.\r\n", name, link)
}
