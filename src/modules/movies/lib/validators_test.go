package movies

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	models "theater/src/modules/movies/models"
	"theater/src/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerOn(v))
	return v
}

func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return now }
	t.Cleanup(func() { Now = prev })
}

func ptr[T any](v T) *T { return &v }

func validCreate() MovieCreateRequest {
	return MovieCreateRequest{
		Name:      "Dune",
		Date:      models.NewDate(2025, 1, 1),
		Score:     ptr(85.0),
		Overview:  ptr("..."),
		Status:    models.StatusReleased,
		Budget:    ptr(100.0),
		Revenue:   ptr(400.0),
		Country:   "US",
		Genres:    []string{"Sci-Fi"},
		Actors:    []string{"A"},
		Languages: []string{"English"},
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	svcErr := BindingError(err)
	require.True(t, errors.Is(svcErr, utils.ErrValidation))
	out := make(map[string]string, len(svcErr.Fields))
	for _, f := range svcErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestCreateRequestValid(t *testing.T) {
	fixClock(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	v := newValidator(t)

	assert.NoError(t, v.Struct(validCreate()))

	// Zero is a real score and budget.
	req := validCreate()
	req.Score = ptr(0.0)
	req.Budget = ptr(0.0)
	req.Genres = []string{}
	assert.NoError(t, v.Struct(req))
}

func TestCreateRequestMissingFields(t *testing.T) {
	v := newValidator(t)

	fields := fieldsOf(t, v.Struct(MovieCreateRequest{}))
	for _, name := range []string{"name", "date", "score", "overview", "status", "budget", "revenue", "country", "genres", "actors", "languages"} {
		assert.Equal(t, "field required", fields[name], name)
	}
}

func TestCreateRequestRanges(t *testing.T) {
	fixClock(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	v := newValidator(t)

	req := validCreate()
	req.Score = ptr(100.5)
	req.Budget = ptr(-1.0)
	req.Status = "Rumored"
	req.Name = string(make([]byte, 256))
	fields := fieldsOf(t, v.Struct(req))

	assert.Equal(t, "ensure this value is less than or equal to 100", fields["score"])
	assert.Equal(t, "ensure this value is greater than or equal to 0", fields["budget"])
	assert.Equal(t, "value must be one of: Released, Post Production, In Production", fields["status"])
	assert.Equal(t, "ensure this value has at most 255 characters", fields["name"])
	assert.NotContains(t, fields, "revenue")
}

func TestReleaseWindow(t *testing.T) {
	fixClock(t, time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC))
	v := newValidator(t)

	req := validCreate()
	req.Date = models.NewDate(2026, 1, 1)
	assert.NoError(t, v.Struct(req), "exactly 365 days ahead is allowed")

	req.Date = models.NewDate(2026, 1, 2)
	fields := fieldsOf(t, v.Struct(req))
	assert.Equal(t, "Date cannot be more than one year in the future", fields["date"])

	assert.True(t, WithinReleaseWindow(models.NewDate(1895, 12, 28)))
	assert.True(t, WithinReleaseWindow(models.Date{}))
}

func TestUpdateRequestValidation(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(MovieUpdateRequest{}))
	assert.NoError(t, v.Struct(MovieUpdateRequest{Score: ptr(50.0), Status: ptr(models.StatusInProduction)}))

	fields := fieldsOf(t, v.Struct(MovieUpdateRequest{Score: ptr(-3.0), Status: ptr("Cancelled")}))
	assert.Contains(t, fields, "score")
	assert.Contains(t, fields, "status")
}

func TestUpdateRequestChanges(t *testing.T) {
	var req MovieUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"score": 70, "overview": null, "budget": 0}`), &req))

	changes := req.Changes()
	assert.Equal(t, map[string]any{"score": 70.0, "budget": 0.0}, changes)
}

func TestBindingErrorTypeMismatch(t *testing.T) {
	var req MovieCreateRequest
	err := json.Unmarshal([]byte(`{"score": "high"}`), &req)

	svcErr := BindingError(err)
	require.Len(t, svcErr.Fields, 1)
	assert.Equal(t, "score", svcErr.Fields[0].Field)
	assert.Equal(t, "value must be of type float64", svcErr.Fields[0].Message)
}
