package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/otp"
)

func setupOTPService() (*OTPService, *otp.MemoryStore, *fakeEmailService) {
	store := otp.NewMemoryStore()
	mail := &fakeEmailService{}
	return NewOTPService(store, mail, 5*time.Minute, 6, zerolog.Nop()), store, mail
}

func TestOTP_SendThenVerify(t *testing.T) {
	service, _, mail := setupOTPService()
	ctx := context.Background()

	require.NoError(t, service.Send(ctx, "Jane@Example.com"))
	require.Len(t, mail.otps, 1)
	code := mail.otps[0].code
	assert.Len(t, code, 6)

	require.NoError(t, service.Verify(ctx, " jane@example.com", code))

	// consumed on success
	assert.ErrorIs(t, service.Verify(ctx, "jane@example.com", code), apperrors.ErrInvalidOTP)
}

func TestOTP_WrongCodeKeepsStoredOne(t *testing.T) {
	service, _, mail := setupOTPService()
	ctx := context.Background()

	require.NoError(t, service.Send(ctx, "jane@example.com"))
	code := mail.otps[0].code
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	assert.ErrorIs(t, service.Verify(ctx, "jane@example.com", wrong), apperrors.ErrInvalidOTP)
	assert.NoError(t, service.Verify(ctx, "jane@example.com", code))
}

func TestOTP_ResendReplacesCode(t *testing.T) {
	service, store, mail := setupOTPService()
	ctx := context.Background()

	require.NoError(t, service.Send(ctx, "jane@example.com"))
	require.NoError(t, service.Send(ctx, "jane@example.com"))
	require.Len(t, mail.otps, 2)

	stored, err := store.Get(ctx, otp.NormalizeKey("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, mail.otps[1].code, stored)
}

func TestOTP_UnknownAddress(t *testing.T) {
	service, _, _ := setupOTPService()

	assert.ErrorIs(t, service.Verify(context.Background(), "nobody@example.com", "123456"), apperrors.ErrInvalidOTP)
}

func TestOTP_MailFailureDropsCode(t *testing.T) {
	service, store, mail := setupOTPService()
	mail.err = errors.New("smtp down")
	ctx := context.Background()

	require.Error(t, service.Send(ctx, "jane@example.com"))

	_, err := store.Get(ctx, otp.NormalizeKey("jane@example.com"))
	assert.ErrorIs(t, err, otp.ErrNotFound)
}

func TestOTP_EmptyAddress(t *testing.T) {
	service, _, mail := setupOTPService()

	assert.ErrorIs(t, service.Send(context.Background(), "  "), apperrors.ErrValidationFailed)
	assert.Empty(t, mail.otps)
}
