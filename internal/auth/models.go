package auth

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`                  // student, teacher, parent, admin
	Grade        string             `bson:"grade,omitempty"`       // Grade for students (e.g. "7"), used for notification targeting
	Class        string             `bson:"class,omitempty"`       // Class section for students (e.g. "7A"), used for notification targeting
	Verified     bool               `bson:"verified"`              // Email verified flag
	ResetToken   string             `bson:"reset_token,omitempty"` // Outstanding password reset token, if any
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Grade    string `json:"grade"`
	Class    string `json:"class"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
