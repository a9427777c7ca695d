package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockAreaStore struct{ mock.Mock }

func (m *mockAreaStore) Get(ctx context.Context, areaID string) (*domain.IncidentArea, error) {
	args := m.Called(ctx, areaID)
	if a, _ := args.Get(0).(*domain.IncidentArea); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) Issue(ctx context.Context, userID, purpose, source string) (string, error) {
	args := m.Called(ctx, userID, purpose, source)
	return args.String(0), args.Error(1)
}
func (m *mockIssuer) Consume(ctx context.Context, opaque, purpose string) (*domain.VerificationToken, error) {
	args := m.Called(ctx, opaque, purpose)
	if t, _ := args.Get(0).(*domain.VerificationToken); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockQuestions struct{ mock.Mock }

func (m *mockQuestions) GetQuestions(ctx context.Context, email string) (string, string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *mockQuestions) VerifyAnswers(ctx context.Context, email, answer1, answer2 string) (string, error) {
	args := m.Called(ctx, email, answer1, answer2)
	return args.String(0), args.Error(1)
}
func (m *mockQuestions) SetQuestions(ctx context.Context, userID string, req domain.SetSecurityQuestionsRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newTestService(us *mockUserStore, as *mockAreaStore, iss *mockIssuer, q *mockQuestions, ml *mockMailer, sms *mockSMSSender, jwt *mockJWTSigner) Service {
	deps := ServiceDeps{
		UserRepo:  us,
		AreaRepo:  as,
		Issuer:    iss,
		Questions: q,
		Mailer:    ml,
		Signer:    jwt,
		BaseURL:   "http://localhost:8080",
	}
	if sms != nil {
		deps.SMSSender = sms
	}
	return NewService(deps)
}

func mustHashPassword(t *testing.T, pwd string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Register ---

func TestRegister_WeakPassword(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "Maria Rodriguez",
		Email:          "a@b.com",
		Password:       "short",
		IncidentAreaID: "area1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1"}, nil)

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "Maria Rodriguez",
		Email:          "a@b.com",
		Password:       "Passw0rdFuerte",
		IncidentAreaID: "area1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_StoreFailureIsNotTreatedAsFreeEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("query throttled"))

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "Maria Rodriguez",
		Email:          "a@b.com",
		Password:       "Passw0rdFuerte",
		IncidentAreaID: "area1",
	})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_UnknownIncidentArea(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)
	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, as, nil, nil, nil, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "Maria Rodriguez",
		Email:          "a@b.com",
		Password:       "Passw0rdFuerte",
		IncidentAreaID: "missing",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "maria@example.com").Return(nil, domain.ErrNotFound)
	var created *domain.User
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "area1").Return(&domain.IncidentArea{AreaID: "area1"}, nil)

	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, mock.Anything, domain.PurposeEmailVerify, domain.SourceEmail).
		Return("opaque-verify", nil)

	ml := &mockMailer{}
	var body string
	ml.On("SendEmail", "maria@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	svc := newTestService(us, as, iss, nil, ml, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "  Maria Rodriguez ",
		Email:          "MaRia@Example.COM",
		Password:       "Passw0rdFuerte",
		IncidentAreaID: "area1",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "maria@example.com", created.Email)
	assert.Equal(t, "Maria Rodriguez", created.FullName)
	assert.Equal(t, domain.RoleEndUser, created.Role)
	assert.False(t, created.EmailVerified)
	assert.True(t, created.Enable)
	assert.NotEmpty(t, created.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Passw0rdFuerte")))
	assert.Contains(t, body, "opaque-verify")
	ml.AssertExpectations(t)
}

func TestRegister_MailDeliveryFailureStillSucceeds(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "area1").Return(&domain.IncidentArea{AreaID: "area1"}, nil)
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("opaque-verify", nil)
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newTestService(us, as, iss, nil, ml, nil, nil)
	err := svc.Register(context.Background(), domain.RegisterRequest{
		FullName:       "Maria Rodriguez",
		Email:          "a@b.com",
		Password:       "Passw0rdFuerte",
		IncidentAreaID: "area1",
	})

	// The account exists either way; the resend flow covers the lost email.
	require.NoError(t, err)
}

// --- Login ---

func TestLogin_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "x@x.com", Password: "whatever1A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestLogin_WrongPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{
		UserID:        "u1",
		PasswordHash:  mustHashPassword(t, "Correcta1A"),
		EmailVerified: true,
		Enable:        true,
	}, nil)

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "Equivocada1A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestLogin_DisabledAccount_IsIndistinguishable(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{
		UserID:        "u1",
		PasswordHash:  mustHashPassword(t, "Correcta1A"),
		EmailVerified: true,
		Enable:        false,
	}, nil)

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "Correcta1A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
	assert.False(t, errors.Is(err, domain.ErrVerificationRequired))
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{
		UserID:        "u1",
		PasswordHash:  mustHashPassword(t, "Correcta1A"),
		EmailVerified: false,
		Enable:        true,
	}, nil)

	svc := newTestService(us, nil, nil, nil, nil, nil, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "Correcta1A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVerificationRequired))
}

func TestLogin_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{
		UserID:        "u1",
		Email:         "a@b.com",
		Role:          domain.RoleEndUser,
		PasswordHash:  mustHashPassword(t, "Correcta1A"),
		EmailVerified: true,
		Enable:        true,
	}, nil)
	jwt := &mockJWTSigner{}
	jwt.On("Sign", "u1", domain.RoleEndUser).Return("signed-jwt", nil)

	svc := newTestService(us, nil, nil, nil, nil, nil, jwt)
	res, err := svc.Login(context.Background(), LoginRequest{Email: "A@B.com", Password: "Correcta1A"})

	require.NoError(t, err)
	assert.Equal(t, "signed-jwt", res.Token)
	assert.Equal(t, "u1", res.User.UserID)
	jwt.AssertExpectations(t)
}

// --- VerifyEmail ---

func TestVerifyEmail_HappyPath(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposeEmailVerify).
		Return(&domain.VerificationToken{UserID: "u1", Purpose: domain.PurposeEmailVerify, Consumed: true}, nil)
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"email_verified": true}).Return(nil)

	svc := newTestService(us, nil, iss, nil, nil, nil, nil)
	already, err := svc.VerifyEmail(context.Background(), "opaque")

	require.NoError(t, err)
	assert.False(t, already)
	us.AssertExpectations(t)
}

func TestVerifyEmail_RepeatClick_IsIdempotentSuccess(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposeEmailVerify).
		Return(&domain.VerificationToken{UserID: "u1", Consumed: true}, domain.ErrTokenConsumed)
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", EmailVerified: true}, nil)

	svc := newTestService(us, nil, iss, nil, nil, nil, nil)
	already, err := svc.VerifyEmail(context.Background(), "opaque")

	require.NoError(t, err)
	assert.True(t, already)
}

func TestVerifyEmail_ConsumedButUserNotVerified(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposeEmailVerify).
		Return(&domain.VerificationToken{UserID: "u1", Consumed: true}, domain.ErrTokenConsumed)
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", EmailVerified: false}, nil)

	svc := newTestService(us, nil, iss, nil, nil, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), "opaque")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "garbage", domain.PurposeEmailVerify).
		Return(nil, domain.ErrInvalidToken)

	svc := newTestService(nil, nil, iss, nil, nil, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), "garbage")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

// --- ResendVerification ---

func TestResendVerification_UnknownEmail_SilentSuccess(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)
	ml := &mockMailer{}

	svc := newTestService(us, nil, nil, nil, ml, nil, nil)
	err := svc.ResendVerification(context.Background(), "x@x.com")

	require.NoError(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestResendVerification_AlreadyVerified_NoMail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", EmailVerified: true}, nil)
	iss := &mockIssuer{}

	svc := newTestService(us, nil, iss, nil, nil, nil, nil)
	err := svc.ResendVerification(context.Background(), "a@b.com")

	require.NoError(t, err)
	iss.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResendVerification_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, "u1", domain.PurposeEmailVerify, domain.SourceEmail).
		Return("opaque-verify", nil)
	ml := &mockMailer{}
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(us, nil, iss, nil, ml, nil, nil)
	err := svc.ResendVerification(context.Background(), "a@b.com")

	require.NoError(t, err)
	ml.AssertExpectations(t)
}

// --- RequestPasswordRecovery ---

func TestRequestPasswordRecovery_UnknownEmail_SilentSuccess(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)
	ml := &mockMailer{}

	svc := newTestService(us, nil, nil, nil, ml, nil, nil)
	err := svc.RequestPasswordRecovery(context.Background(), "x@x.com")

	require.NoError(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPasswordRecovery_Cooldown_SilentSuccess(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, "u1", domain.PurposePasswordReset, domain.SourceEmail).
		Return("", domain.ErrCooldown)
	ml := &mockMailer{}

	svc := newTestService(us, nil, iss, nil, ml, nil, nil)
	err := svc.RequestPasswordRecovery(context.Background(), "a@b.com")

	require.NoError(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPasswordRecovery_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, "u1", domain.PurposePasswordReset, domain.SourceEmail).
		Return("opaque-reset", nil)
	ml := &mockMailer{}
	var body string
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	svc := newTestService(us, nil, iss, nil, ml, nil, nil)
	err := svc.RequestPasswordRecovery(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.Contains(t, body, "opaque-reset")
}

// --- ResetPassword ---

func TestResetPassword_WeakPassword(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil, nil, nil)
	err := svc.ResetPassword(context.Background(), "opaque", "debil")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestResetPassword_ReusedToken(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposePasswordReset).
		Return(&domain.VerificationToken{UserID: "u1", Consumed: true}, domain.ErrTokenConsumed)

	svc := newTestService(nil, nil, iss, nil, nil, nil, nil)
	err := svc.ResetPassword(context.Background(), "opaque", "NuevaClave1A")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestResetPassword_HappyPath_SendsSMSAlert(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposePasswordReset).
		Return(&domain.VerificationToken{UserID: "u1", Consumed: true, Source: domain.SourceEmail}, nil)

	phone := "+584121234567"
	us := &mockUserStore{}
	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Phone: &phone}, nil)

	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, phone, mock.Anything).Return(nil)

	svc := newTestService(us, nil, iss, nil, nil, sms, nil)
	err := svc.ResetPassword(context.Background(), "opaque", "NuevaClave1A")

	require.NoError(t, err)
	require.Contains(t, updates, "password_hash")
	hash := updates["password_hash"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("NuevaClave1A")))
	sms.AssertExpectations(t)
}

func TestResetPassword_NoPhone_SkipsSMS(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Consume", mock.Anything, "opaque", domain.PurposePasswordReset).
		Return(&domain.VerificationToken{UserID: "u1", Consumed: true}, nil)
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	sms := &mockSMSSender{}

	svc := newTestService(us, nil, iss, nil, nil, sms, nil)
	err := svc.ResetPassword(context.Background(), "opaque", "NuevaClave1A")

	require.NoError(t, err)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateProfile ---

func TestUpdateProfile_MissingIncidentArea(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{
		FullName: "Maria Rodriguez",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAreaRequired))
}

func TestUpdateProfile_UnknownIncidentArea(t *testing.T) {
	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := newTestService(nil, as, nil, nil, nil, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{
		FullName:       "Maria Rodriguez",
		IncidentAreaID: "missing",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateProfile_HappyPath_EmailAndRoleUntouched(t *testing.T) {
	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "area2").Return(&domain.IncidentArea{AreaID: "area2"}, nil)

	phone := "+584121234567"
	us := &mockUserStore{}
	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", FullName: "Maria Perez"}, nil)

	svc := newTestService(us, as, nil, nil, nil, nil, nil)
	got, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{
		FullName:       " Maria Perez ",
		Phone:          &phone,
		IncidentAreaID: "area2",
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria Perez", updates["full_name"])
	assert.Equal(t, "area2", updates["incident_area_id"])
	assert.Equal(t, phone, updates["phone"])
	assert.NotContains(t, updates, "email")
	assert.NotContains(t, updates, "role")
	assert.Equal(t, "u1", got.UserID)
}

func TestUpdateProfile_PhoneOmitted_NotCleared(t *testing.T) {
	as := &mockAreaStore{}
	as.On("Get", mock.Anything, "area2").Return(&domain.IncidentArea{AreaID: "area2"}, nil)
	us := &mockUserStore{}
	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := newTestService(us, as, nil, nil, nil, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{
		FullName:       "Maria Perez",
		IncidentAreaID: "area2",
	})

	require.NoError(t, err)
	assert.NotContains(t, updates, "phone")
}

// --- SetSecurityQuestions ---

func TestSetSecurityQuestions_DelegatesAfterValidation(t *testing.T) {
	q := &mockQuestions{}
	req := domain.SetSecurityQuestionsRequest{
		Question1: "Nombre de su primera mascota?",
		Answer1:   "Fluffy",
		Question2: "Ciudad donde nacio?",
		Answer2:   "Barquisimeto",
	}
	q.On("SetQuestions", mock.Anything, "u1", req).Return(nil)

	svc := newTestService(nil, nil, nil, q, nil, nil, nil)
	err := svc.SetSecurityQuestions(context.Background(), "u1", req)

	require.NoError(t, err)
	q.AssertExpectations(t)
}

func TestSetSecurityQuestions_ShortQuestionRejected(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil, nil, nil)
	err := svc.SetSecurityQuestions(context.Background(), "u1", domain.SetSecurityQuestionsRequest{
		Question1: "corta",
		Answer1:   "Fluffy",
		Question2: "Ciudad donde nacio?",
		Answer2:   "Barquisimeto",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
