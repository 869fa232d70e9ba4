package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/pluscode/internal/locality"
	"github.com/mohammed-shakir/pluscode/internal/locality/kafkasync"
)

const maxLocalityBody = 4 << 10

type putLocalityRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

func (a *API) handleGetLocality(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New("locality store is not configured"))
		return
	}
	l, err := a.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// nextRev returns a revision above prev and above every revision this API
// has handed out. Revisions are wall-clock nanoseconds so a name that was
// deleted and then recreated still orders after its delete on every replica.
func (a *API) nextRev(prev int64) int64 {
	for {
		last := a.lastRev.Load()
		rev := max(a.clock.Now().UnixNano(), prev+1, last+1)
		if a.lastRev.CompareAndSwap(last, rev) {
			return rev
		}
	}
}

// handlePutLocality creates or replaces a locality. Replicas apply the
// change only when its revision beats the last one they saw for the name.
func (a *API) handlePutLocality(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New("locality store is not configured"))
		return
	}
	var req putLocalityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLocalityBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusBadRequest, errors.New("body requires lat and lng"))
		return
	}

	ctx := r.Context()
	name := locality.NormalizeName(chi.URLParam(r, "name"))
	prev, err := a.store.Get(ctx, name)
	if err != nil && !errors.Is(err, locality.ErrNotFound) {
		writeError(w, statusFor(err), err)
		return
	}

	l := locality.Locality{Name: name, Latitude: *req.Latitude, Longitude: *req.Longitude, Rev: a.nextRev(prev.Rev)}
	if err := a.store.Put(ctx, l); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if a.pub != nil {
		a.pub.Publish(kafkasync.UpsertEvent(l, a.clock.Now().UTC()))
	}
	a.log.InfoContext(ctx, "locality stored", "name", l.Name, "rev", l.Rev)
	writeJSON(w, http.StatusOK, l)
}

func (a *API) handleDeleteLocality(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New("locality store is not configured"))
		return
	}
	ctx := r.Context()
	name := locality.NormalizeName(chi.URLParam(r, "name"))
	prev, err := a.store.Get(ctx, name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := a.store.Delete(ctx, name); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if a.pub != nil {
		a.pub.Publish(kafkasync.DeleteEvent(name, uint64(a.nextRev(prev.Rev)), a.clock.Now().UTC()))
	}
	a.log.InfoContext(ctx, "locality deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}
