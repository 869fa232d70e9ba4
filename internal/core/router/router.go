// Package router serves the Plus Code HTTP API.
package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/mohammed-shakir/pluscode/internal/core/observability"
	"github.com/mohammed-shakir/pluscode/internal/locality"
	"github.com/mohammed-shakir/pluscode/internal/locality/kafkasync"
	mylog "github.com/mohammed-shakir/pluscode/internal/logger"
	"github.com/mohammed-shakir/pluscode/internal/mapper"
	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

// ChangePublisher announces locality writes to other replicas.
type ChangePublisher interface {
	Publish(ev kafkasync.Event)
}

type Deps struct {
	Logger            *slog.Logger
	Localities        locality.Store
	Publisher         ChangePublisher
	Mapper            mapper.Interface
	DefaultCodeLength int
	// Clock stamps locality revisions. Defaults to the real clock.
	Clock clockwork.Clock
}

type API struct {
	log    *slog.Logger
	store  locality.Store
	pub    ChangePublisher
	mapper mapper.Interface
	defLen int
	clock  clockwork.Clock

	lastRev atomic.Int64
}

func New(d Deps) *API {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.DefaultCodeLength == 0 {
		d.DefaultCodeLength = olc.DefaultCodeLength
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return &API{
		log:    d.Logger,
		store:  d.Localities,
		pub:    d.Publisher,
		mapper: d.Mapper,
		defLen: d.DefaultCodeLength,
		clock:  d.Clock,
	}
}

// Mount registers the /v1 routes on r.
func (a *API) Mount(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/encode", a.handleEncode)
		r.Get("/decode", a.handleDecode)
		r.Get("/validate", a.handleValidate)
		r.Get("/shorten", a.handleShorten)
		r.Get("/recover", a.handleRecover)

		r.Get("/localities/{name}", a.handleGetLocality)
		r.Put("/localities/{name}", a.handlePutLocality)
		r.Delete("/localities/{name}", a.handleDeleteLocality)
	})
}

func (a *API) codecOp(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()
	observability.ObserveCodecOp(op, err, time.Since(start).Seconds())
	if err != nil {
		a.log.DebugContext(mylog.WithOp(ctx, op), "codec op failed", "err", err)
	}
	return err
}

type encodeResponse struct {
	Code string `json:"code"`
}

func (a *API) handleEncode(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := parseLatLng(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	codeLen, err := parseOptionalInt(r, "len", a.defLen)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var code string
	err = a.codecOp(r.Context(), "encode", func() (err error) {
		code, err = olc.Encode(lat, lng, codeLen)
		return err
	})
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, encodeResponse{Code: code})
}

type decodeResponse struct {
	Code            string   `json:"code"`
	LatitudeLo      float64  `json:"latitude_lo"`
	LatitudeHi      float64  `json:"latitude_hi"`
	LongitudeLo     float64  `json:"longitude_lo"`
	LongitudeHi     float64  `json:"longitude_hi"`
	LatitudeCenter  float64  `json:"latitude_center"`
	LongitudeCenter float64  `json:"longitude_center"`
	CodeLength      int      `json:"code_length"`
	H3Cell          string   `json:"h3_cell,omitempty"`
	H3Cells         []string `json:"h3_cells,omitempty"`
}

func (a *API) handleDecode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, errMissing("code"))
		return
	}
	res, err := parseOptionalInt(r, "h3res", -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var area olc.CodeArea
	err = a.codecOp(r.Context(), "decode", func() (err error) {
		area, err = olc.Decode(code)
		return err
	})
	if err != nil {
		writeCodecError(w, err)
		return
	}

	lat, lng := area.Center()
	out := decodeResponse{
		Code:            strings.ToUpper(code),
		LatitudeLo:      area.LatitudeLo,
		LatitudeHi:      area.LatitudeHi,
		LongitudeLo:     area.LongitudeLo,
		LongitudeHi:     area.LongitudeHi,
		LatitudeCenter:  lat,
		LongitudeCenter: lng,
		CodeLength:      area.CodeLength,
	}
	if res >= 0 {
		if a.mapper == nil {
			writeError(w, http.StatusNotImplemented, errors.New("h3 cross-reference is not configured"))
			return
		}
		cell, err := a.mapper.CellForArea(area, res)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		cells, err := a.mapper.CellsForArea(area, res)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		out.H3Cell, out.H3Cells = cell, cells
	}
	writeJSON(w, http.StatusOK, out)
}

type validateResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
	Short bool   `json:"short"`
	Full  bool   `json:"full"`
}

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	var kind olc.Kind
	_ = a.codecOp(r.Context(), "validate", func() error {
		kind = olc.Classify(code)
		return nil
	})
	writeJSON(w, http.StatusOK, validateResponse{
		Code:  code,
		Valid: kind != olc.KindInvalid,
		Short: kind == olc.KindShort,
		Full:  kind == olc.KindFull,
	})
}

type referenceJSON struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Locality  string  `json:"locality,omitempty"`
}

type referencedCodeResponse struct {
	Code      string        `json:"code"`
	Reference referenceJSON `json:"reference"`
}

func (a *API) handleShorten(w http.ResponseWriter, r *http.Request) {
	a.withReference(w, r, "shorten", olc.Shorten)
}

func (a *API) handleRecover(w http.ResponseWriter, r *http.Request) {
	a.withReference(w, r, "recover", olc.RecoverNearest)
}

func (a *API) withReference(w http.ResponseWriter, r *http.Request, op string, fn func(string, float64, float64) (string, error)) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, errMissing("code"))
		return
	}
	ref, status, err := a.resolveReference(r)
	if err != nil {
		writeError(w, status, err)
		return
	}

	var out string
	err = a.codecOp(r.Context(), op, func() (err error) {
		out, err = fn(code, ref.Latitude, ref.Longitude)
		return err
	})
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, referencedCodeResponse{Code: out, Reference: ref})
}

// resolveReference reads either locality=<name> or lat/lng.
func (a *API) resolveReference(r *http.Request) (referenceJSON, int, error) {
	name := strings.TrimSpace(r.URL.Query().Get("locality"))
	if name == "" {
		lat, lng, err := parseLatLng(r)
		if err != nil {
			return referenceJSON{}, http.StatusBadRequest, err
		}
		return referenceJSON{Latitude: lat, Longitude: lng}, 0, nil
	}
	if a.store == nil {
		return referenceJSON{}, http.StatusNotImplemented, errors.New("locality store is not configured")
	}
	l, err := a.store.Get(r.Context(), name)
	if err != nil {
		return referenceJSON{}, statusFor(err), err
	}
	return referenceJSON{Latitude: l.Latitude, Longitude: l.Longitude, Locality: l.Name}, 0, nil
}
