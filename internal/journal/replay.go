package journal

import (
	"context"
	"sort"
	"time"

	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/movie"
)

// Replayer applies recorded events to a store in time order.
//
// Stores assign their own ids on add, so the replayer tracks the id each
// recorded add received and rewrites later updates and deletes to match.
type Replayer struct {
	store  movie.Store
	clock  *clock.VirtualSource
	filter Filter
	speed  float64 // 1.0 = real-time, 10.0 = 10x, 0 = instant
}

// Result is the outcome of applying one event.
type Result struct {
	Event Event     `json:"event"`
	Time  time.Time `json:"time"` // virtual time when applied
	Err   string    `json:"error,omitempty"`
}

// Summary aggregates replay statistics.
type Summary struct {
	TotalEvents  int           `json:"total_events"`
	Filtered     int           `json:"filtered"`
	Applied      int           `json:"applied"`
	Failed       int           `json:"failed"`
	Duration     time.Duration `json:"duration"`      // virtual time span
	WallDuration time.Duration `json:"wall_duration"` // actual wall clock time
	PerKind      map[Kind]int  `json:"per_kind"`
}

// NewReplayer creates a replayer writing to s. A nil vc starts a virtual
// clock at the first event.
func NewReplayer(s movie.Store, vc *clock.VirtualSource, speed float64, filter Filter) *Replayer {
	if speed < 0 {
		speed = 0
	}
	return &Replayer{store: s, clock: vc, speed: speed, filter: filter}
}

// Run replays events and calls cb, if non-nil, after each one. A failing
// event is counted and reported through cb; it does not stop the run.
func (r *Replayer) Run(ctx context.Context, events []Event, cb func(Result)) (*Summary, error) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	var filtered []Event
	for _, e := range sorted {
		if r.filter.Match(e) {
			filtered = append(filtered, e)
		}
	}

	summary := &Summary{
		TotalEvents: len(sorted),
		Filtered:    len(filtered),
		PerKind:     make(map[Kind]int),
	}
	if len(filtered) == 0 {
		return summary, nil
	}
	if r.clock == nil {
		r.clock = clock.NewVirtualSource(filtered[0].Time)
	}

	ids := make(map[int]int)
	wallStart := time.Now()

	for i, e := range filtered {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if i > 0 {
			if gap := e.Time.Sub(filtered[i-1].Time); gap > 0 {
				if r.speed > 0 {
					scaled := time.Duration(float64(gap) / r.speed)
					if scaled > time.Millisecond {
						select {
						case <-ctx.Done():
							return summary, ctx.Err()
						case <-time.After(scaled):
						}
					}
				}
				r.clock.Advance(gap)
			}
		}

		res := Result{Event: e, Time: r.clock.Now()}
		if err := r.apply(ctx, e, ids); err != nil {
			summary.Failed++
			res.Err = err.Error()
		} else {
			summary.Applied++
			summary.PerKind[e.Kind]++
		}
		if cb != nil {
			cb(res)
		}
	}

	summary.Duration = filtered[len(filtered)-1].Time.Sub(filtered[0].Time)
	summary.WallDuration = time.Since(wallStart)
	return summary, nil
}

func (r *Replayer) apply(ctx context.Context, e Event, ids map[int]int) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Entity == EntityType {
		return r.applyType(ctx, e)
	}

	m := *e.Movie
	if id, ok := ids[m.ID]; ok {
		m.ID = id
	}
	switch e.Kind {
	case KindAdd:
		added, err := r.store.Add(ctx, m)
		if err != nil {
			return err
		}
		ids[e.Movie.ID] = added.ID
		return nil
	case KindUpdate:
		return r.store.Update(ctx, m)
	default:
		return r.store.Delete(ctx, m.ID)
	}
}

func (r *Replayer) applyType(ctx context.Context, e Event) error {
	switch e.Kind {
	case KindAdd:
		_, err := r.store.AddType(ctx, *e.Type)
		return err
	case KindUpdate:
		return r.store.UpdateType(ctx, *e.Type)
	default:
		return r.store.DeleteType(ctx, e.Type.ID)
	}
}
