package security

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

func mustHash(t *testing.T, answer string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(Normalize(answer)), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func configuredUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		UserID:            "u1",
		Email:             "a@b.com",
		SecurityQuestion1: "Nombre de su primera mascota?",
		AnswerHash1:       mustHash(t, "Fluffy"),
		SecurityQuestion2: "Ciudad donde nacio?",
		AnswerHash2:       mustHash(t, "Barquisimeto"),
	}
}

// --- Normalize ---

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fluffy", "fluffy"},
		{"  Fluffy  ", "fluffy"},
		{"MY  DOG   Rex", "my dog rex"},
		{"\tSan   Felipe \n", "san felipe"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

// --- GetQuestions ---

func TestGetQuestions_UnknownEmail_ReadsAsNotConfigured(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)

	v := NewVerifier(us, &mockIssuer{})
	_, _, err := v.GetQuestions(context.Background(), "x@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestGetQuestions_NoQuestionsConfigured(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1"}, nil)

	v := NewVerifier(us, &mockIssuer{})
	_, _, err := v.GetQuestions(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestGetQuestions_ReturnsTexts(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(configuredUser(t), nil)

	v := NewVerifier(us, &mockIssuer{})
	q1, q2, err := v.GetQuestions(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.Equal(t, "Nombre de su primera mascota?", q1)
	assert.Equal(t, "Ciudad donde nacio?", q2)
}

// --- VerifyAnswers ---

func TestVerifyAnswers_OneWrongAnswer_IsGenericAuthFailure(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(configuredUser(t), nil)
	iss := &mockIssuer{}

	v := NewVerifier(us, iss)
	_, err := v.VerifyAnswers(context.Background(), "a@b.com", "Fluffy", "Caracas")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
	iss.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAnswers_BothWrong_SameFailure(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(configuredUser(t), nil)

	v := NewVerifier(us, &mockIssuer{})
	_, err := v.VerifyAnswers(context.Background(), "a@b.com", "Rex", "Caracas")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestVerifyAnswers_UnknownEmail_SameFailure(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)

	v := NewVerifier(us, &mockIssuer{})
	_, err := v.VerifyAnswers(context.Background(), "x@x.com", "Fluffy", "Barquisimeto")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestVerifyAnswers_NotConfigured(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1"}, nil)

	v := NewVerifier(us, &mockIssuer{})
	_, err := v.VerifyAnswers(context.Background(), "a@b.com", "Fluffy", "Barquisimeto")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestVerifyAnswers_SloppyInputStillMatches(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(configuredUser(t), nil)
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, "u1", domain.PurposePasswordReset, domain.SourceSecurityQuestions).
		Return("opaque-reset", nil)

	v := NewVerifier(us, iss)
	tok, err := v.VerifyAnswers(context.Background(), "a@b.com", "  FLUFFY ", "barquisimeto")

	require.NoError(t, err)
	assert.Equal(t, "opaque-reset", tok)
	iss.AssertExpectations(t)
}

// --- SetQuestions ---

func TestSetQuestions_WritesBothPairsInOneUpdate(t *testing.T) {
	us := &mockUserStore{}
	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	v := NewVerifier(us, &mockIssuer{})
	err := v.SetQuestions(context.Background(), "u1", domain.SetSecurityQuestionsRequest{
		Question1: "Nombre de su primera mascota?",
		Answer1:   "Fluffy",
		Question2: "Ciudad donde nacio?",
		Answer2:   "  San  Felipe ",
	})

	require.NoError(t, err)
	us.AssertNumberOfCalls(t, "Update", 1)
	require.Contains(t, updates, "security_question_1")
	require.Contains(t, updates, "answer_hash_1")
	require.Contains(t, updates, "security_question_2")
	require.Contains(t, updates, "answer_hash_2")

	// Stored hashes match the normalized answers, never the raw input.
	h1 := updates["answer_hash_1"].(string)
	h2 := updates["answer_hash_2"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h1), []byte("fluffy")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h2), []byte("san felipe")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(h2), []byte("  San  Felipe ")))
}
