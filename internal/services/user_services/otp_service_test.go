// File: internal/services/user_services/otp_service_test.go
package user_services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/repository/user"
	"github.com/bookmyseva/backend/internal/repository/verification"
	"github.com/bookmyseva/backend/internal/services/sms"
)

// fakeSMS captures outbound codes instead of hitting a provider.
type fakeSMS struct {
	sent []string
}

func (f *fakeSMS) SendCode(ctx context.Context, phone, code string) error {
	f.sent = append(f.sent, code)
	return nil
}

func (f *fakeSMS) GetProviderStatus() sms.ProviderStatus { return sms.ProviderStatus{} }

func testOTPService(t *testing.T) (*OTPService, *fakeSMS, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "otp.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.VerificationCode{}))

	fake := &fakeSMS{}
	svc := NewOTPService(
		user.NewGormUserRepository(db),
		verification.NewGormVerificationRepository(db),
		fake,
		logging.NopLogger{},
	)
	return svc, fake, db
}

func TestSendLoginCodeDeliversSixDigits(t *testing.T) {
	svc, fake, _ := testOTPService(t)

	require.NoError(t, svc.SendLoginCode(context.Background(), "+919876543210"))
	require.Len(t, fake.sent, 1)
	assert.Len(t, fake.sent[0], 6)
}

func TestSendLoginCodeThrottlesResend(t *testing.T) {
	svc, fake, _ := testOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.SendLoginCode(ctx, "+919876543210"))
	err := svc.SendLoginCode(ctx, "+919876543210")
	assert.Error(t, err, "resend within the cooloff must be refused")
	assert.Len(t, fake.sent, 1)
}

func TestVerifyLoginCodeCreatesCustomer(t *testing.T) {
	svc, fake, db := testOTPService(t)
	ctx := context.Background()
	phone := "+919876543210"

	require.NoError(t, svc.SendLoginCode(ctx, phone))

	account, err := svc.VerifyLoginCode(ctx, phone, fake.sent[0])
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, account.Role)
	assert.True(t, account.Verified)
	assert.Equal(t, phone, account.PhoneNumber)

	// The code is single-use.
	_, err = svc.VerifyLoginCode(ctx, phone, fake.sent[0])
	assert.ErrorIs(t, err, ErrInvalidCode)

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifyLoginCodeWrongCodeCountsAttempts(t *testing.T) {
	svc, fake, _ := testOTPService(t)
	ctx := context.Background()
	phone := "+919876543210"

	require.NoError(t, svc.SendLoginCode(ctx, phone))

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyLoginCode(ctx, phone, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	// Attempts exhausted; even the right code is refused now.
	_, err := svc.VerifyLoginCode(ctx, phone, fake.sent[0])
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifyLoginCodeExpired(t *testing.T) {
	svc, fake, db := testOTPService(t)
	ctx := context.Background()
	phone := "+919876543210"

	require.NoError(t, svc.SendLoginCode(ctx, phone))
	require.NoError(t, db.Model(&domain.VerificationCode{}).
		Where("phone_number = ?", phone).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err := svc.VerifyLoginCode(ctx, phone, fake.sent[0])
	assert.ErrorIs(t, err, ErrInvalidCode, "expired codes are not found by the lookup")
}

func TestAdminLoginRequiresAdminAccount(t *testing.T) {
	_, _, db := testOTPService(t)
	ctx := context.Background()

	customer := &domain.User{PhoneNumber: "+911111111111", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(customer).Error)

	admin := &domain.User{PhoneNumber: "+912222222222", Role: domain.RoleAdmin}
	require.NoError(t, admin.HashPassword("secret-password"))
	require.NoError(t, db.Create(admin).Error)

	authSvc := NewAuthService(user.NewGormUserRepository(db), []byte("test-secret"), logging.NopLogger{})

	_, _, err := authSvc.AdminLogin(ctx, "+911111111111", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authSvc.AdminLogin(ctx, "+912222222222", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	account, token, err := authSvc.AdminLogin(ctx, "+912222222222", "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, account.IsAdmin())
}
