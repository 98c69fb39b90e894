package response

import (
	"vintour/internal/usecase/commands"
	"vintour/internal/usecase/queries"
)

// BookingResponse wraps the read model; IsReplayed distinguishes a fresh
// creation from an idempotent replay.
type BookingResponse struct {
	*queries.BookingView
	IsReplayed bool `json:"isReplayed,omitempty"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{BookingView: view}
}

func FromCreateResult(result *commands.CreateBookingResult) *BookingResponse {
	return &BookingResponse{BookingView: result.Booking, IsReplayed: result.IsReplayed}
}

type TimelineResponse struct {
	Events []*queries.TimelineEventView `json:"events"`
}

func FromTimeline(events []*queries.TimelineEventView) *TimelineResponse {
	if events == nil {
		events = []*queries.TimelineEventView{}
	}
	return &TimelineResponse{Events: events}
}

type SlotsResponse struct {
	Slots []queries.Slot `json:"slots"`
}

func FromSlots(slots []queries.Slot) *SlotsResponse {
	if slots == nil {
		slots = []queries.Slot{}
	}
	return &SlotsResponse{Slots: slots}
}
