package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

const (
	maxBodyBytes = 1 << 20
	badRequest   = "Requête invalide"
)

// statusFor maps a use-case error onto an HTTP status. The body always
// carries domain.UserMessage(err).
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrOTPRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrNotificationNotFound), errors.Is(err, domain.ErrReclamationNotFound):
		return http.StatusNotFound
	case domain.IsBusiness(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSimulatedNetwork), errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	response.Error(w, status, domain.UserMessage(err))
}

// form is a flattened request body. The UI posts urlencoded or multipart
// forms, API clients post JSON objects.
type form map[string]string

func (f form) get(keys ...string) string {
	for _, k := range keys {
		if v, ok := f[k]; ok {
			return v
		}
	}
	return ""
}

func readForm(r *http.Request) (form, error) {
	ct := r.Header.Get("Content-Type")
	out := form{}

	switch {
	case strings.HasPrefix(ct, "application/json"):
		raw := map[string]interface{}{}
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
			case string:
				out[k] = t
			case json.Number:
				out[k] = t.String()
			case bool:
				out[k] = strconv.FormatBool(t)
			default:
				out[k] = fmt.Sprint(t)
			}
		}
		return out, nil

	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	}

	for k, v := range r.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
