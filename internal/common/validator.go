package common

import (
	"amiigo/internal/models"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var latestZone = time.FixedZone("UTC+14", 14*60*60)

// ValidationIssue is one entry of a 422 response detail list.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Validator plugs go-playground/validator into echo.Context.Validate.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewValidator() *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}

	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	// pastdate: a YYYY-MM-DD string that is not after today in the
	// easternmost time zone, so no client's local today is rejected.
	_ = v.validate.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		date, err := time.Parse(models.DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		today, _ := time.Parse(models.DateLayout, v.now().In(latestZone).Format(models.DateLayout))
		return !date.After(today)
	})

	// maxbytes: string length in bytes, not runes. bcrypt caps passwords at 72 bytes.
	_ = v.validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	return v
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	issues := make([]ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, ValidationIssue{
			Loc:  []string{"body", fe.Field()},
			Msg:  issueMessage(fe),
			Type: issueType(fe),
		})
	}

	return echo.NewHTTPError(http.StatusUnprocessableEntity, issues)
}

// InvalidBody is the 422 returned when the request body cannot be decoded.
func InvalidBody(err error) *echo.HTTPError {
	msg := "Invalid request body"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, []ValidationIssue{{
		Loc:  []string{"body"},
		Msg:  msg,
		Type: "body_invalid",
	}}).SetInternal(err)
}

// InvalidPath is the 422 returned for a malformed path parameter.
func InvalidPath(name, msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, []ValidationIssue{{
		Loc:  []string{"path", name},
		Msg:  msg,
		Type: "path_invalid",
	}})
}

func issueType(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "missing"
	}
	return fe.Tag()
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "max":
		return fmt.Sprintf("should have at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("should be at most %s bytes long", fe.Param())
	case "min":
		return fmt.Sprintf("should have at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("should be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "should be a valid date in YYYY-MM-DD format"
	case "pastdate":
		return "should not be in the future"
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
