package movies

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	models "theater/src/modules/movies/models"
	"theater/src/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ReleaseWindowDays bounds how far in the future a release date may be.
const ReleaseWindowDays = 365

const releaseWindowMessage = "Date cannot be more than one year in the future"

// Now is the clock used by the release window check.
var Now = time.Now

// RegisterValidators installs the movie tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("movie_status", validateStatus); err != nil {
		return fmt.Errorf("register movie_status: %w", err)
	}
	if err := v.RegisterValidation("release_window", validateReleaseWindow); err != nil {
		return fmt.Errorf("register release_window: %w", err)
	}
	return nil
}

func validateStatus(fl validator.FieldLevel) bool {
	return slices.Contains(models.Statuses, fl.Field().String())
}

func validateReleaseWindow(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(models.Date)
	if !ok {
		return false
	}
	return WithinReleaseWindow(d)
}

// WithinReleaseWindow reports whether d is at most ReleaseWindowDays after today.
func WithinReleaseWindow(d models.Date) bool {
	if d.IsZero() {
		return true
	}
	now := Now()
	today := models.NewDate(now.Year(), now.Month(), now.Day())
	limit := today.Time().AddDate(0, 0, ReleaseWindowDays)
	return !d.Time().After(limit)
}

// BindingError turns a gin binding failure into a 422 ServiceError with per-field detail.
func BindingError(err error) *utils.ServiceError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]utils.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, utils.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return utils.NewValidation("Validation failed.", fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return utils.NewValidation("Validation failed.", utils.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("value must be of type %s", typeErr.Type),
		})
	}

	return utils.NewValidation("Validation failed.", utils.FieldError{Field: "body", Message: err.Error()})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "movie_status":
		return "value must be one of: " + strings.Join(models.Statuses, ", ")
	case "release_window":
		return releaseWindowMessage
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
