package hunt

import (
	"encoding/json"
	"time"
)

const trailKey = "trail"

// Trail decimation tuning. A new point must be both TrailMinStepSec after
// and TrailMinStepM away from the last retained point, which suppresses
// GPS jitter and over-sampling.
const (
	TrailMax        = 300
	TrailMinStepM   = 8.0
	TrailMinStepSec = 4
)

// TrailPoint is one retained breadcrumb position.
type TrailPoint struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// Trail is a bounded, decimated history of visited positions. Oldest points
// are evicted first once TrailMax is reached.
type Trail struct {
	points []TrailPoint
	store  Storage
}

// NewTrail returns an empty trail persisting through store.
func NewTrail(store Storage) *Trail {
	return &Trail{store: store}
}

// LoadTrail restores a persisted trail, or returns an empty one when the
// stored state is missing or corrupt. Persistence problems are never fatal
// to the game.
func LoadTrail(store Storage) *Trail {
	t := NewTrail(store)
	raw, ok := store.Get(trailKey)
	if !ok {
		return t
	}
	var points []TrailPoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return t
	}
	t.points = points
	return t
}

// Record offers a position sample to the trail and reports whether it was
// retained. The first point is always accepted; later samples are dropped
// when they arrive too soon or too close to the last retained point.
// Accepted points are persisted immediately.
func (t *Trail) Record(lat, lng float64, now time.Time) bool {
	if n := len(t.points); n > 0 {
		last := t.points[n-1]
		if now.Sub(last.At) < TrailMinStepSec*time.Second {
			return false
		}
		if DistanceM(LatLng{last.Lat, last.Lng}, LatLng{lat, lng}) < TrailMinStepM {
			return false
		}
	}

	t.points = append(t.points, TrailPoint{Lat: lat, Lng: lng, At: now})
	if len(t.points) > TrailMax {
		t.points = t.points[len(t.points)-TrailMax:]
	}

	t.save()
	return true
}

// Points returns the retained breadcrumbs in insertion order. The returned
// slice is a copy; mutating it does not affect the trail.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the number of retained points.
func (t *Trail) Len() int { return len(t.points) }

// Clear empties the trail and removes it from storage.
func (t *Trail) Clear() {
	t.points = nil
	_ = t.store.Remove(trailKey)
}

func (t *Trail) save() {
	raw, err := json.Marshal(t.points)
	if err != nil {
		return
	}
	_ = t.store.Set(trailKey, string(raw))
}
