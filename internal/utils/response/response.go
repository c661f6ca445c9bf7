package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// Response is the envelope every endpoint answers with. Clients check
// Success before looking at anything else.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Total   *int        `json:"total,omitempty"`
	Page    *int        `json:"page,omitempty"`
	Pages   *int        `json:"pages,omitempty"`
	Token   string      `json:"token,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func GeneralError(err error) Response {
	return Response{
		Success: false,
		Message: err.Error(),
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errorMessages string
	for _, err := range errs {
		errorMessages += err.Field() + ": " + err.Tag() + "; "
	}

	return Response{
		Success: false,
		Message: "Validation failed",
		Error:   errorMessages,
	}
}

func RequestOK(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Counted is RequestOK for a complete listing.
func Counted(data interface{}, count int) Response {
	return Response{
		Success: true,
		Data:    data,
		Count:   &count,
	}
}

// Paged is RequestOK for one page of a listing.
func Paged(data interface{}, count, total int, p types.Page) Response {
	pages := p.Pages(total)
	return Response{
		Success: true,
		Data:    data,
		Count:   &count,
		Total:   &total,
		Page:    &p.Number,
		Pages:   &pages,
	}
}

// StatusFor maps an error's kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a failure envelope. Unclassified errors become 500s
// carrying the raw detail in the error field.
func Error(w http.ResponseWriter, err error) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		WriteJSON(w, http.StatusBadRequest, ValidationError(errs))
		return
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", slog.String("error", err.Error()))
		WriteJSON(w, status, Response{Success: false, Message: "Server Error", Error: err.Error()})
		return
	}

	var e *apperr.Error
	if errors.As(err, &e) {
		WriteJSON(w, status, Response{Success: false, Message: e.Message})
		return
	}
	WriteJSON(w, status, GeneralError(err))
}
