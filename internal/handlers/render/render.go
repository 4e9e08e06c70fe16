package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(useJSONTagNames)
}

type Struct any

// JSON sends data with status 200.
// Handlers include "success": true in their response structs, failures go
// through Fail/FailWith so every response carries the same envelope.
func JSON(w http.ResponseWriter, data any) {
	jsonWithStatus(w, data, http.StatusOK)
}

// Fail renders the platform error envelope: {"success": false, "message": ...}
func Fail(w http.ResponseWriter, message string, code int) {
	FailWith(w, message, code, nil)
}

// FailWith renders the error envelope with extra context fields
// (e.g. requiredCoins/currentCoins) merged in at the top level.
func FailWith(w http.ResponseWriter, message string, code int, extra map[string]any) {
	response := map[string]any{
		"success": false,
		"message": message,
	}
	for key, value := range extra {
		response[key] = value
	}

	jsonWithStatus(w, response, code)
}

// DecodeError renders a failed JSON body parse
func DecodeError(w http.ResponseWriter, err error) {
	var message string

	// Try to provide a more specific message based on error type
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		message = fmt.Sprintf("Invalid data type for field '%s'", err.Field)
	default:
		message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	Fail(w, message, http.StatusBadRequest)
}

// ValidationErrors renders field level validation failures
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make(map[string]any, len(errs))

	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "gt":
			message = fmt.Sprintf("Value must be greater than %s", fieldError.Param())
		default:
			message = "Invalid value"
		}

		fields[fieldError.Field()] = message
	}

	FailWith(w, "Request validation failed", http.StatusBadRequest, map[string]any{"fields": fields})
}

// BindAndValidate decodes the JSON request body into T and validates it by
// struct tags. Error responses are already written when err is not nil.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// cast is fine, T is always a struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// jsonWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
