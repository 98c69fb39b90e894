package queries

import (
	"context"
	"fmt"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/domain/schedule"
	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	TourDate      time.Time
	StartTime     string
	DurationHours float64
	PartySize     int
	BrandID       *uuid.UUID
}

type SlotsInput struct {
	TourDate      time.Time
	DurationHours float64
	PartySize     int
	BrandID       *uuid.UUID
}

type VehicleReads interface {
	FindCandidates(ctx context.Context, partySize int, brandID *uuid.UUID) ([]*VehicleView, error)
}

type BlockReads interface {
	FindActiveByDate(ctx context.Context, date time.Time) ([]*BlockView, error)
}

type AvailabilityQueries interface {
	Check(ctx context.Context, in AvailabilityInput) (*AvailabilityResult, error)
	AvailableSlots(ctx context.Context, in SlotsInput) ([]Slot, error)
}

type availabilityQueriesImpl struct {
	vehicles VehicleReads
	blocks   BlockReads
	clk      clock.Clock
	cfg      config.BookingConfig
}

func NewAvailabilityQueries(vehicles VehicleReads, blocks BlockReads, clk clock.Clock, cfg config.BookingConfig) AvailabilityQueries {
	return &availabilityQueriesImpl{vehicles: vehicles, blocks: blocks, clk: clk, cfg: cfg}
}

// Check answers whether any active vehicle can take the party for the
// requested interval. Candidates come back ordered smallest-capacity
// first, so the vehicle returned is the tightest fit that is free.
func (q *availabilityQueriesImpl) Check(ctx context.Context, in AvailabilityInput) (*AvailabilityResult, error) {
	iv, err := q.requestedInterval(in.StartTime, in.DurationHours)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if _, err := booking.NewTourDate(in.TourDate, q.clk.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if in.PartySize < 1 || in.PartySize > q.cfg.MaxPartySize {
		return nil, errs.Mark(errs.Newf("party size must be between 1 and %d", q.cfg.MaxPartySize), errs.ErrValidation)
	}

	candidates, err := q.vehicles.FindCandidates(ctx, in.PartySize, in.BrandID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load vehicle candidates")
	}
	if len(candidates) == 0 {
		return &AvailabilityResult{
			Available: false,
			Conflicts: []string{fmt.Sprintf("no active vehicle can accommodate a party of %d", in.PartySize)},
		}, nil
	}

	blocksByVehicle, err := q.blocksFor(ctx, in.TourDate)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, v := range candidates {
		if hit := firstOverlap(blocksByVehicle[v.ID], iv); hit != nil {
			conflicts = append(conflicts, fmt.Sprintf(
				"%s is blocked %s-%s", v.Name,
				minutesToClock(hit.StartMin), minutesToClock(hit.EndMin)))
			continue
		}
		name := v.Name
		id := v.ID
		return &AvailabilityResult{Available: true, VehicleID: &id, VehicleName: &name}, nil
	}
	return &AvailabilityResult{Available: false, Conflicts: conflicts}, nil
}

// AvailableSlots slides a window of the requested duration across the
// booking day in fixed increments and reports every start the fleet can
// serve. Slots may end past the window close; they never cross midnight
// into the next calendar date.
func (q *availabilityQueriesImpl) AvailableSlots(ctx context.Context, in SlotsInput) ([]Slot, error) {
	windowStart, err := schedule.ParseTimeOfDay(q.cfg.SlotWindowStart)
	if err != nil {
		return nil, errs.Wrap(err, "invalid slot window start")
	}
	windowEnd, err := schedule.ParseTimeOfDay(q.cfg.SlotWindowEnd)
	if err != nil {
		return nil, errs.Wrap(err, "invalid slot window end")
	}
	if in.DurationHours < q.cfg.MinDurationHours {
		return nil, errs.Mark(errs.Newf("duration must be at least %.1f hours", q.cfg.MinDurationHours), errs.ErrValidation)
	}
	if _, err := booking.NewTourDate(in.TourDate, q.clk.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if in.PartySize < 1 || in.PartySize > q.cfg.MaxPartySize {
		return nil, errs.Mark(errs.Newf("party size must be between 1 and %d", q.cfg.MaxPartySize), errs.ErrValidation)
	}

	candidates, err := q.vehicles.FindCandidates(ctx, in.PartySize, in.BrandID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load vehicle candidates")
	}
	if len(candidates) == 0 {
		return []Slot{}, nil
	}
	blocksByVehicle, err := q.blocksFor(ctx, in.TourDate)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for startMin := windowStart.Minutes(); startMin <= windowEnd.Minutes(); startMin += q.cfg.SlotIncrementMinutes {
		start, err := schedule.NewTimeOfDay(startMin)
		if err != nil {
			break
		}
		iv, err := schedule.IntervalFromDuration(start, in.DurationHours)
		if err != nil {
			continue
		}
		for _, v := range candidates {
			if firstOverlap(blocksByVehicle[v.ID], iv) != nil {
				continue
			}
			slots = append(slots, Slot{
				StartTime: iv.Start().String(),
				EndTime:   iv.End().String(),
				VehicleID: v.ID.String(),
			})
			break
		}
	}
	return slots, nil
}

func (q *availabilityQueriesImpl) requestedInterval(startTime string, durationHours float64) (schedule.Interval, error) {
	start, err := schedule.ParseTimeOfDay(startTime)
	if err != nil {
		return schedule.Interval{}, err
	}
	if durationHours < q.cfg.MinDurationHours {
		return schedule.Interval{}, errs.Newf("duration must be at least %.1f hours", q.cfg.MinDurationHours)
	}
	return schedule.IntervalFromDuration(start, durationHours)
}

func (q *availabilityQueriesImpl) blocksFor(ctx context.Context, date time.Time) (map[uuid.UUID][]*BlockView, error) {
	blocks, err := q.blocks.FindActiveByDate(ctx, date)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load reservation blocks")
	}
	byVehicle := make(map[uuid.UUID][]*BlockView, len(blocks))
	for _, b := range blocks {
		byVehicle[b.VehicleID] = append(byVehicle[b.VehicleID], b)
	}
	return byVehicle, nil
}

func firstOverlap(blocks []*BlockView, iv schedule.Interval) *BlockView {
	for _, b := range blocks {
		if iv.Start().Minutes() < b.EndMin && b.StartMin < iv.End().Minutes() {
			return b
		}
	}
	return nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
