package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

type response struct {
	Data any `json:"data"`
}

func SendJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode json", "error", err)
	}
}

func SendHTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// SendResponse wraps data as `{"data": ...}`, or sends err when it is set.
func SendResponse(w http.ResponseWriter, r *http.Request, statusCode int, data any, err error) {
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, r, statusCode, &response{Data: data})
}

func IsMethod(r *http.Request, method string) bool {
	return r.Method == method
}

func ReadRequestBodyJSON[T any](r *http.Request, payload T) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return ErrorBadRequest(r, "unsupported content-type: "+contentType)
	}

	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(payload)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return ErrorBadRequest(r, "failed to decode request body").WithCause(err)
}
