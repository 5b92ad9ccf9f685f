package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes carried in ErrorResponse.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeUnsupported  = "unsupported_schema"
	codeInternal     = "internal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code" example:"bad_request"`
	Message string `json:"error" example:"date must be formatted YYYY-MM-DD"`
}

// respond encodes v before touching the response, so a value that cannot be
// encoded turns into a 500 instead of a truncated 2xx body.
func respond(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"code":"internal","error":"internal error"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respond(w, status, ErrorResponse{Code: code, Message: msg})
}
