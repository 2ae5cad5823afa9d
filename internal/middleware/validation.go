package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/leaders"
	"nbadash/internal/stats"
)

// seasonPattern matches NBA season labels such as 2023-24
var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// QueryValidator decodes query parameters into tagged structs and validates
// them with struct tags. Fields are bound through their `query` tag; string,
// integer and *int fields are supported. A *int stays nil when the parameter
// is absent or blank.
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a new query validator
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()

	// Register custom validators
	_ = v.RegisterValidation("season", isSeason)
	_ = v.RegisterValidation("category", isCategory)

	// Use query tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// Decode binds r's query parameters into dst, which must be a pointer to a
// struct, and validates the result. Embedded structs are bound as well.
// Failures are returned as a 400 APIError.
func (v *QueryValidator) Decode(r *http.Request, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("query decode: expected pointer to struct, got %T", dst)
	}

	var problems []apierrors.ValidationError
	if err := bindQuery(rv.Elem(), r.URL.Query(), &problems); err != nil {
		return err
	}

	if len(problems) > 0 {
		v.logger.DebugContext(r.Context(), "query decode failed",
			slog.String("path", r.URL.Path),
			slog.Int("problems", len(problems)),
		)
		return apierrors.NewValidationErrors(problems)
	}

	return v.ValidateStruct(dst)
}

func bindQuery(rv reflect.Value, query url.Values, problems *[]apierrors.ValidationError) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)

		if field.Anonymous && fv.Kind() == reflect.Struct {
			if err := bindQuery(fv, query, problems); err != nil {
				return err
			}
			continue
		}

		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" || !query.Has(name) {
			continue
		}
		raw := strings.TrimSpace(query.Get(name))

		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(raw)
		case isIntKind(fv.Kind()):
			if n, ok := parseQueryInt(name, raw, problems); ok {
				fv.SetInt(n)
			}
		case fv.Kind() == reflect.Ptr && isIntKind(fv.Type().Elem().Kind()):
			if n, ok := parseQueryInt(name, raw, problems); ok {
				p := reflect.New(fv.Type().Elem())
				p.Elem().SetInt(n)
				fv.Set(p)
			}
		default:
			return fmt.Errorf("query decode: unsupported field kind %s for %s", fv.Kind(), name)
		}
	}
	return nil
}

func isIntKind(k reflect.Kind) bool {
	return k == reflect.Int || k == reflect.Int32 || k == reflect.Int64
}

// parseQueryInt parses raw, recording a problem when it is not an integer.
// A blank value is treated as absent.
func parseQueryInt(name, raw string, problems *[]apierrors.ValidationError) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*problems = append(*problems, apierrors.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("%s must be a valid integer", name),
		})
		return 0, false
	}
	return n, true
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "season":
		return fmt.Sprintf("%s must be a season like 2023-24 or %q", field, stats.AllSeasons)
	case "category":
		return fmt.Sprintf("%s must be a known leaderboard category", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isSeason accepts an empty value, "All" in any case, or a YYYY-YY label
func isSeason(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || strings.EqualFold(s, stats.AllSeasons) {
		return true
	}
	return seasonPattern.MatchString(s)
}

// isCategory accepts any leaderboard category, case-insensitively
func isCategory(fl validator.FieldLevel) bool {
	_, err := leaders.ParseCategory(fl.Field().String())
	return err == nil
}
