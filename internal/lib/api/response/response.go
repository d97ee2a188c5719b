package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response общий конверт всех JSON-ответов. Клиенты ветвятся только по Success.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Success: true}
}

func Error(msg string) Response {
	return Response{
		Success: false,
		Error:   msg,
	}
}

// ValidationError validate request
func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "url", "http_url":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid URL", err.Field()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(strings.Join(errMsgs, ", "))
}

func NewJSON(w http.ResponseWriter, _ *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "failed to encode response"}`)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Fail пишет конверт ошибки с заданным статусом
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	NewJSON(w, r, status, Error(msg))
}
