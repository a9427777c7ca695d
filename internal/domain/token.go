package domain

// Verification token purposes. At most one unconsumed token per
// (user, purpose) is authoritative: issuing a new one overwrites the item
// and supersedes anything outstanding.
const (
	PurposeEmailVerify   = "email_verify"
	PurposePasswordReset = "password_reset"
)

// Issuance sources for password_reset tokens. Both channels produce
// interchangeable tokens; the source is kept for auditing only.
const (
	SourceEmail             = "email"
	SourceSecurityQuestions = "security_questions"
)

// VerificationToken is the stored form of a single-use credential.
// PK: user_id, SK: purpose. Only the SHA-256 digest of the opaque value is
// kept at rest; the opaque value itself travels to the user out-of-band.
// ExpiresAt is a Unix timestamp also used as DynamoDB TTL.
type VerificationToken struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	TokenHash string `json:"-" dynamodbav:"token_hash"`
	Source    string `json:"source" dynamodbav:"source"`
	IssuedAt  int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
	Consumed  bool   `json:"consumed" dynamodbav:"consumed"`
}
