package services

import "github.com/gofiber/fiber/v2"

// Error is a business-rule rejection carrying the HTTP status it maps to.
// Controllers translate it into the standard JSON envelope; nothing below
// the controller layer touches fiber.Ctx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

func UnprocessableEntity(message string) *Error {
	return &Error{Status: fiber.StatusUnprocessableEntity, Message: message}
}

// StatusOf returns the HTTP status for any error a service function can
// return: typed rejections keep their status, everything else is a 500.
func StatusOf(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Status
	}
	return fiber.StatusInternalServerError
}

// MessageOf hides internal error details behind a generic message unless the
// error is a deliberate rejection.
func MessageOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return "Something went wrong!"
}
