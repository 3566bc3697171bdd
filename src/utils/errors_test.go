package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestServiceErrorKinds(t *testing.T) {
	notFound := fmt.Errorf("load: %w", NewNotFound("missing"))
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.False(t, errors.Is(notFound, ErrConflict))

	conflict := NewConflict("dup")
	assert.True(t, errors.Is(conflict, ErrConflict))
	assert.Equal(t, http.StatusConflict, conflict.StatusCode)

	validation := NewValidation("bad", FieldError{Field: "name", Message: "field required"})
	assert.True(t, errors.Is(validation, ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, validation.StatusCode)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, *test.Hook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()

	r := gin.New()
	r.GET("/", func(c *gin.Context) { RespondError(c, log, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w, hook
}

func TestRespondError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		w, hook := respond(t, NewNotFound("Movie with the given ID was not found."))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"Movie with the given ID was not found."}`, w.Body.String())
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("fields", func(t *testing.T) {
		w, _ := respond(t, NewValidation("bad", FieldError{Field: "score", Message: "too big"}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"detail":[{"field":"score","message":"too big"}]}`, w.Body.String())
	})

	t.Run("unknown", func(t *testing.T) {
		w, hook := respond(t, errors.New("connection refused"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Internal Server Error", body["detail"])

		require.Len(t, hook.AllEntries(), 1)
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})
}
