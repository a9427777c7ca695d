package security

import (
	"context"
	"fmt"
	"strings"

	tokenapp "github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/token"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Verifier implements the security-question recovery channel: it validates a
// pair of memorized answers against stored hashes and, on success, mints a
// password_reset token equivalent in power to an emailed one.
type Verifier interface {
	GetQuestions(ctx context.Context, email string) (q1, q2 string, err error)
	VerifyAnswers(ctx context.Context, email, answer1, answer2 string) (resetToken string, err error)
	SetQuestions(ctx context.Context, userID string, req domain.SetSecurityQuestionsRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verifier struct {
	users  userStore
	issuer tokenapp.Issuer
}

func NewVerifier(users userStore, issuer tokenapp.Issuer) Verifier {
	return &verifier{users: users, issuer: issuer}
}

func (v *verifier) GetQuestions(ctx context.Context, email string) (string, string, error) {
	u, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		// Question texts are only returned for existing accounts; an unknown
		// email reads the same as an account without questions.
		return "", "", fmt.Errorf("security questions unavailable: %w", domain.ErrNotConfigured)
	}
	if !u.HasSecurityQuestions() {
		return "", "", fmt.Errorf("security questions unavailable: %w", domain.ErrNotConfigured)
	}
	return u.SecurityQuestion1, u.SecurityQuestion2, nil
}

func (v *verifier) VerifyAnswers(ctx context.Context, email, answer1, answer2 string) (string, error) {
	u, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("answer verification failed: %w", domain.ErrAuth)
	}
	if !u.HasSecurityQuestions() {
		return "", fmt.Errorf("security questions unavailable: %w", domain.ErrNotConfigured)
	}

	// Both compares always run: no early exit that would reveal which answer
	// was wrong. bcrypt's compare is constant-time for equal-cost hashes.
	err1 := bcrypt.CompareHashAndPassword([]byte(u.AnswerHash1), []byte(Normalize(answer1)))
	err2 := bcrypt.CompareHashAndPassword([]byte(u.AnswerHash2), []byte(Normalize(answer2)))
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("answer verification failed: %w", domain.ErrAuth)
	}

	opaque, err := v.issuer.Issue(ctx, u.UserID, domain.PurposePasswordReset, domain.SourceSecurityQuestions)
	if err != nil {
		return "", err
	}
	return opaque, nil
}

func (v *verifier) SetQuestions(ctx context.Context, userID string, req domain.SetSecurityQuestionsRequest) error {
	h1, err := bcrypt.GenerateFromPassword([]byte(Normalize(req.Answer1)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	h2, err := bcrypt.GenerateFromPassword([]byte(Normalize(req.Answer2)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// Both pairs in one single-row update: never one new + one old.
	return v.users.Update(ctx, userID, map[string]interface{}{
		"security_question_1": strings.TrimSpace(req.Question1),
		"answer_hash_1":       string(h1),
		"security_question_2": strings.TrimSpace(req.Question2),
		"answer_hash_2":       string(h2),
	})
}

// Normalize makes answer matching forgiving: case-insensitive, trimmed, with
// internal whitespace runs collapsed to single spaces.
func Normalize(answer string) string {
	return strings.ToLower(strings.Join(strings.Fields(answer), " "))
}
