package domain

import "time"

const (
	RoleAdmin      = "administrator"
	RoleTechnician = "technician"
	RoleEndUser    = "end_user"
)

type User struct {
	UserID            string    `json:"id" dynamodbav:"user_id"`
	Email             string    `json:"email" dynamodbav:"email"` // stored lowercase
	PasswordHash      string    `json:"-" dynamodbav:"password_hash"`
	FullName          string    `json:"full_name" dynamodbav:"full_name"`
	Phone             *string   `json:"phone,omitempty" dynamodbav:"phone"`
	Role              string    `json:"role" dynamodbav:"role"`
	IncidentAreaID    string    `json:"incident_area_id" dynamodbav:"incident_area_id"`
	EmailVerified     bool      `json:"email_verified" dynamodbav:"email_verified"`
	SecurityQuestion1 string    `json:"-" dynamodbav:"security_question_1"`
	AnswerHash1       string    `json:"-" dynamodbav:"answer_hash_1"`
	SecurityQuestion2 string    `json:"-" dynamodbav:"security_question_2"`
	AnswerHash2       string    `json:"-" dynamodbav:"answer_hash_2"`
	Enable            bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HasSecurityQuestions reports whether the alternate recovery channel is
// configured. Both pairs are written atomically, so both hashes are either
// present or absent.
func (u *User) HasSecurityQuestions() bool {
	return u.AnswerHash1 != "" && u.AnswerHash2 != ""
}

type RegisterRequest struct {
	FullName       string  `json:"full_name" validate:"required,fullname"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,strongpwd"`
	Phone          *string `json:"phone" validate:"omitempty,min=7,max=20"`
	IncidentAreaID string  `json:"incident_area_id" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName       string  `json:"full_name" validate:"required,fullname"`
	Phone          *string `json:"phone" validate:"omitempty,min=7,max=20"`
	IncidentAreaID string  `json:"incident_area_id"`
}

type SetSecurityQuestionsRequest struct {
	Question1 string `json:"question1" validate:"required,min=8"`
	Answer1   string `json:"answer1" validate:"required,min=2"`
	Question2 string `json:"question2" validate:"required,min=8"`
	Answer2   string `json:"answer2" validate:"required,min=2"`
}
