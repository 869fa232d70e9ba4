package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/pluscode/internal/locality"
	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeCodecError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, locality.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, locality.ErrInvalid),
		errors.Is(err, olc.ErrInvalidCode),
		errors.Is(err, olc.ErrInvalidLength),
		errors.Is(err, olc.ErrInvalidCharacter),
		errors.Is(err, olc.ErrInvalidLocation),
		errors.Is(err, olc.ErrNotFullCode),
		errors.Is(err, olc.ErrNotShortCode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errMissing(name string) error {
	return fmt.Errorf("missing required parameter: %s", name)
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, errMissing(name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func parseLatLng(r *http.Request) (lat, lng float64, err error) {
	if lat, err = parseFloatParam(r, "lat"); err != nil {
		return 0, 0, err
	}
	if lng, err = parseFloatParam(r, "lng"); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func parseOptionalInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}
