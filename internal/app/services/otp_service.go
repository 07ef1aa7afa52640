package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/email"
	"github.com/gamage-recruiters/platform/internal/pkg/otp"
)

// OTPService issues and checks emailed one-time codes
type OTPService struct {
	store        otp.Store
	emailService email.EmailService
	ttl          time.Duration
	length       int
	logger       zerolog.Logger
}

// NewOTPService creates a new OTPService
func NewOTPService(store otp.Store, emailService email.EmailService, ttl time.Duration, length int, logger zerolog.Logger) *OTPService {
	return &OTPService{
		store:        store,
		emailService: emailService,
		ttl:          ttl,
		length:       length,
		logger:       logger,
	}
}

// TTL returns how long an issued code stays valid
func (s *OTPService) TTL() time.Duration {
	return s.ttl
}

// Send generates a code for the address, stores it and mails it. A new code replaces the previous one.
func (s *OTPService) Send(ctx context.Context, emailAddr string) error {
	key := otp.NormalizeKey(emailAddr)
	if key == "" {
		return apperrors.NewValidationError("email is required")
	}

	code, err := otp.Generate(s.length)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, code, s.ttl); err != nil {
		return fmt.Errorf("error storing otp: %w", err)
	}

	if err := s.emailService.SendOTPEmail(emailAddr, code, s.ttl); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("Failed to discard unsent otp")
		}
		return fmt.Errorf("error sending otp email: %w", err)
	}

	s.logger.Info().Dur("ttl", s.ttl).Msg("OTP sent")
	return nil
}

// Verify compares a code with the stored one and consumes it on success
func (s *OTPService) Verify(ctx context.Context, emailAddr, code string) error {
	key := otp.NormalizeKey(emailAddr)

	stored, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return apperrors.ErrInvalidOTP
		}
		return fmt.Errorf("error reading otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.logger.Info().Msg("OTP verification failed")
		return apperrors.ErrInvalidOTP
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete verified otp")
	}
	return nil
}
