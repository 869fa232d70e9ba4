// Package kafkasync keeps localities consistent across server replicas by
// publishing and consuming change events on a Kafka topic.
package kafkasync

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohammed-shakir/pluscode/internal/locality"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

type Event struct {
	Version   int       `json:"version"`
	Op        string    `json:"op"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"lat,omitempty"`
	Longitude float64   `json:"lng,omitempty"`
	Rev       uint64    `json:"rev"`
	TS        time.Time `json:"ts"`
}

func UpsertEvent(l locality.Locality, ts time.Time) Event {
	rev := uint64(0)
	if l.Rev > 0 {
		rev = uint64(l.Rev)
	}
	return Event{
		Version: 1, Op: OpUpsert, Name: locality.NormalizeName(l.Name),
		Latitude: l.Latitude, Longitude: l.Longitude, Rev: rev, TS: ts,
	}
}

func DeleteEvent(name string, rev uint64, ts time.Time) Event {
	return Event{Version: 1, Op: OpDelete, Name: locality.NormalizeName(name), Rev: rev, TS: ts}
}

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case OpUpsert, OpDelete:
	default:
		return fmt.Errorf("op must be upsert|delete")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if e.Rev == 0 {
		return fmt.Errorf("rev must be positive")
	}
	if e.Op == OpUpsert {
		if err := e.locality().Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e Event) locality() locality.Locality {
	return locality.Locality{
		Name:      e.Name,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Rev:       int64(min(e.Rev, 1<<63-1)),
	}
}
