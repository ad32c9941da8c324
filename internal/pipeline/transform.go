package pipeline

import (
	"errors"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
)

// normalize converts raw events into table rows, counting every dropped
// record by reason.
func (p *Pipeline) normalize(raw []domain.RawEvent) []domain.NormalizedEvent {
	out := make([]domain.NormalizedEvent, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		ev, err := domain.NormalizeEvent(r)
		if err != nil {
			dropped++
			p.metrics.EventsDropped.WithLabelValues(dropReason(err)).Inc()
			p.logger.Debug("dropping event", "event_id", r.ID, "error", err)
			continue
		}
		out = append(out, ev)
	}
	p.metrics.EventsNormalized.Add(float64(len(out)))
	if dropped > 0 {
		p.logger.Info("events dropped during normalization", "dropped", dropped, "kept", len(out))
	}
	return out
}

// dropReason maps a normalization error to its metric label.
func dropReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoGeometry):
		return "no_geometry"
	case errors.Is(err, domain.ErrMissingCoordinates):
		return "missing_coordinates"
	case errors.Is(err, domain.ErrMissingDate):
		return "missing_date"
	case errors.Is(err, domain.ErrInvalidDate):
		return "invalid_date"
	default:
		return "other"
	}
}
