package schemas

// CustomError is a response error with a stable code and the message shown to the client.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface so catalog entries can be compared with errors.Is.
func (e *CustomError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	EmailExists = &CustomError{
		Code:    "ERR-002",
		Message: "Email already exists.",
	}
	EmailInvalid = &CustomError{
		Code:    "ERR-003",
		Message: "The email address is not valid.",
	}
	ActivationExpired = &CustomError{
		Code:    "ERR-004",
		Message: "Activation link expired. Kindly try to login to resend the activation mail to your email.",
	}
	ActivationFailed = &CustomError{
		Code:    "ERR-005",
		Message: "User account cannot be activated - Authentication issue.",
	}
	InvalidCredentials = &CustomError{
		Code:    "ERR-006",
		Message: "Invalid credentials!!!",
	}
	EmailNotFound = &CustomError{
		Code:    "ERR-007",
		Message: "Email doesn't exist. Kindly register.",
	}
	UserNotActivated = &CustomError{
		Code:    "ERR-008",
		Message: "Account is not activated. Kindly activate your account first.",
	}
	ResetTokenStoreFailed = &CustomError{
		Code:    "ERR-009",
		Message: "Failed to send password reset mail!!!",
	}
	ResetTokenExpired = &CustomError{
		Code:    "ERR-010",
		Message: "Token expired",
	}
	ResetTokenMismatch = &CustomError{
		Code:    "ERR-011",
		Message: "Token not matching",
	}
	PasswordUpdateFailed = &CustomError{
		Code:    "ERR-012",
		Message: "Failed to update Password",
	}
	NoTokenFound = &CustomError{
		Code:    "ERR-013",
		Message: "No token found",
	}
	Unauthorized = &CustomError{
		Code:    "ERR-014",
		Message: "Unauthorized",
	}
	SessionExpired = &CustomError{
		Code:    "ERR-015",
		Message: "Session expired. Kindly login again.",
	}
	FullUrlRequired = &CustomError{
		Code:    "ERR-016",
		Message: "Full URL required",
	}
	FullUrlInvalid = &CustomError{
		Code:    "ERR-017",
		Message: "Not a valid url",
	}
	LinkExists = &CustomError{
		Code:    "ERR-018",
		Message: "Short URL has already been created for this URL",
	}
	LinkCreationFailed = &CustomError{
		Code:    "ERR-019",
		Message: "Failed to shrink URL",
	}
	NoDataFound = &CustomError{
		Code:    "ERR-020",
		Message: "No data found",
	}
	ShortUrlNotFound = &CustomError{
		Code:    "ERR-021",
		Message: "Short URL not found",
	}
	RedirectFailed = &CustomError{
		Code:    "ERR-022",
		Message: "Error in redirecting",
	}
	ActivationMailFailed = &CustomError{
		Code:    "ERR-023",
		Message: "Failed to send activation mail. Kindly try again.",
	}
	ResetMailFailed = &CustomError{
		Code:    "ERR-024",
		Message: "Failed to send password reset mail. Kindly try again.",
	}
	DatabaseError = &CustomError{
		Code:    "ERR-025",
		Message: "A database error occurred. Please try again later.",
	}
	InternalServerError = &CustomError{
		Code:    "ERR-026",
		Message: "An internal server error occurred. Please try again later.",
	}
)
