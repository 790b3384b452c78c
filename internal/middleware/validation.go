package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"trainpulse/internal/dataprocessing"
	apierrors "trainpulse/internal/errors"
	"trainpulse/internal/exporter"
)

// QueryValidator binds query strings onto tagged structs and validates
// them with struct tags. Fields are named by their `query` tag.
type QueryValidator struct {
	validator *validator.Validate
}

// NewQueryValidator creates a validator with the domain rules registered:
// aggregator, interval and format
func NewQueryValidator() *QueryValidator {
	v := validator.New()

	v.RegisterValidation("aggregator", isAggregator)
	v.RegisterValidation("interval", isInterval)
	v.RegisterValidation("format", isFormat)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{validator: v}
}

// Bind fills dst, a pointer to a struct, from the request query and
// validates it. The returned error is an *errors.APIError ready to be
// handed to the error handler.
func (q *QueryValidator) Bind(r *http.Request, dst interface{}) error {
	if err := bindQuery(r, dst); err != nil {
		return err
	}
	return q.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (q *QueryValidator) ValidateStruct(v interface{}) error {
	err := q.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.NewWithDetails(http.StatusBadRequest, string(apierrors.KindValidation), err.Error(), nil)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{Field: fe.Field(), Message: formatValidationError(fe)})
	}
	return apierrors.NewValidationErrors(out)
}

func bindQuery(r *http.Request, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a pointer to a struct, got %T", dst)
	}

	invalid := bindFields(rv.Elem(), r.URL.Query())
	if len(invalid) > 0 {
		return apierrors.NewValidationErrors(invalid)
	}
	return nil
}

// bindFields sets every `query` tagged field present in values.
// Embedded structs are bound recursively.
func bindFields(rv reflect.Value, values url.Values) []apierrors.ValidationError {
	var invalid []apierrors.ValidationError
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Type().Field(i)
		fv := rv.Field(i)
		if field.Anonymous && fv.Kind() == reflect.Struct {
			invalid = append(invalid, bindFields(fv, values)...)
			continue
		}

		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" || !values.Has(name) || !fv.CanSet() {
			continue
		}
		raw := strings.TrimSpace(values.Get(name))

		var err error
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int64:
			var n int64
			if n, err = strconv.ParseInt(raw, 10, 64); err == nil {
				fv.SetInt(n)
			}
		case reflect.Bool:
			var b bool
			if b, err = cast.ToBoolE(raw); err == nil {
				fv.SetBool(b)
			}
		default:
			err = fmt.Errorf("unsupported field kind %s", fv.Kind())
		}
		if err != nil {
			invalid = append(invalid, apierrors.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("%s must be a valid %s", name, fv.Kind()),
			})
		}
	}
	return invalid
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
	case "aggregator":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(dataprocessing.AggregatorNames(), ", "))
	case "interval":
		return fmt.Sprintf("%s must be one of: day, week, month", field)
	case "format":
		return fmt.Sprintf("%s must be one of: csv, json, xlsx", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isAggregator(fl validator.FieldLevel) bool {
	_, err := dataprocessing.AggregatorByName(fl.Field().String())
	return err == nil
}

func isInterval(fl validator.FieldLevel) bool {
	_, err := dataprocessing.ParseInterval(fl.Field().String())
	return err == nil
}

func isFormat(fl validator.FieldLevel) bool {
	_, err := exporter.ParseFormat(fl.Field().String())
	return err == nil
}
