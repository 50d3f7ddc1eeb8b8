// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// FirstName and LastName are required, sanitized and must be less than 50 characters
// Email is required and must be a valid email
// Password is required and must fit into a bcrypt hash
type RegistrationRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50,name_validation" sanitize:"strict"`
	LastName  string `json:"lastName" validate:"required,max=50,name_validation" sanitize:"strict"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,max=72"`
}

// LoginRequest is a struct that represents a login request
// Email and Password are required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// ForgotPasswordRequest is a struct that represents a password reset request
// Email is required
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

// ResetPasswordRequest is a struct that represents the new password of a reset
// Password is required and must fit into a bcrypt hash
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

// CreateLinkRequest is a struct that represents a create short link request
// FullUrl is checked by the handler, so a missing and an invalid URL get distinct messages
type CreateLinkRequest struct {
	FullUrl string `json:"fullUrl"`
}
