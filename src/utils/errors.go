package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrorKind tags a ServiceError.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

// Sentinels for errors.Is checks against a ServiceError of the same kind.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// FieldError is one failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ServiceError to define return exception for system
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	}
	return false
}

func NewNotFound(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func NewConflict(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

func NewValidation(message string, fields ...FieldError) *ServiceError {
	return &ServiceError{
		Kind:       KindValidation,
		StatusCode: http.StatusUnprocessableEntity,
		Message:    message,
		Fields:     fields,
	}
}

// IsUniqueViolation reports whether err is a unique constraint failure from the store.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// RespondError writes err as a {"detail": ...} body. Anything that is not a
// ServiceError is logged and hidden behind a 500.
func RespondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if len(svcErr.Fields) > 0 {
			c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"detail": svcErr.Fields})
			return
		}
		c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"detail": svcErr.Message})
		return
	}

	log.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
}
