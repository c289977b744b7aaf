package apperr

import "fmt"

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	ErrInvalidID          = &Error{Code: 400, Message: "Invalid id"}
	ErrBadRequest         = &Error{Code: 400, Message: "Invalid request body"}
	ErrUserExists         = &Error{Code: 400, Message: "User already exists"}
	ErrInvalidCredentials = &Error{Code: 400, Message: "Invalid email or password"}
	ErrInvalidRole        = &Error{Code: 400, Message: "Role must be user or admin"}
	ErrSelfDelete         = &Error{Code: 400, Message: "Admin cannot delete own account"}
	ErrEmptyComment       = &Error{Code: 400, Message: "Comment text cannot be empty"}
	ErrMissingToken       = &Error{Code: 401, Message: "Missing token"}
	ErrInvalidToken       = &Error{Code: 401, Message: "Invalid or expired token"}
	ErrForbidden          = &Error{Code: 403, Message: "Forbidden"}
	ErrAccountDisabled    = &Error{Code: 403, Message: "Account is deactivated"}
	ErrUserNotFound       = &Error{Code: 404, Message: "User not found"}
	ErrSampleNotFound     = &Error{Code: 404, Message: "Sample not found"}
	ErrCommentNotFound    = &Error{Code: 404, Message: "Comment not found"}
	ErrAudioNotFound      = &Error{Code: 404, Message: "Audio not found"}
	ErrInternalServer     = &Error{Code: 500, Message: "Internal server error"}
)

func GetStatus(err error) int {
	if customErr, ok := err.(*Error); ok {
		return customErr.Code
	}
	return 500
}

func GetMessage(err error) string {
	if customErr, ok := err.(*Error); ok {
		return customErr.Message
	}
	return err.Error()
}
