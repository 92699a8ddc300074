// README: Trip aggregate, status FSM and transition triggers.
package trip

import (
	"time"

	"teleport/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusAssigned  Status = "assigned"
	StatusEnRoute   Status = "en_route"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type Trigger string

const (
	TriggerBook    Trigger = "book"
	TriggerPrepare Trigger = "prepare"
	TriggerAssign  Trigger = "assign"
	TriggerDepart  Trigger = "depart"
	TriggerDeliver Trigger = "deliver"
	TriggerCancel  Trigger = "cancel"
)

// CourierInfo is the courier picked at the assign stage.
type CourierInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Vehicle  string   `json:"vehicle"`
	Score    float64  `json:"score"`
	Fallback bool     `json:"fallback"`
}

type Trip struct {
	ID              types.ID       `json:"id"`
	RiderID         types.ID       `json:"rider_id,omitempty"`
	Status          Status         `json:"status"`
	StatusVersion   int            `json:"status_version"`
	Pickup          types.GeoPoint `json:"pickup"`
	Dropoff         types.GeoPoint `json:"dropoff"`
	QuoteID         string         `json:"quote_id,omitempty"`
	Provider        string         `json:"provider,omitempty"`
	Category        string         `json:"category,omitempty"`
	Fare            types.Money    `json:"fare"`
	Courier         *CourierInfo   `json:"courier,omitempty"`
	CourierPosition *types.Point   `json:"courier_position,omitempty"`
	TrackStep       int            `json:"track_step"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type Event struct {
	ID         int64     `json:"id"`
	TripID     types.ID  `json:"trip_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	Trigger    Trigger   `json:"trigger"`
	CreatedAt  time.Time `json:"created_at"`
}

// Transition is one optimistic status update. Courier and Position are
// written only when set.
type Transition struct {
	From     Status
	To       Status
	Version  int
	Courier  *CourierInfo
	Position *types.Point
	At       time.Time
}

// AllowedTransitions represents the trip state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusEnRoute, StatusCancelled},
	StatusEnRoute:   {StatusDelivered, StatusCancelled},
}

var triggerTargets = map[Trigger]Status{
	TriggerPrepare: StatusPreparing,
	TriggerAssign:  StatusAssigned,
	TriggerDepart:  StatusEnRoute,
	TriggerDeliver: StatusDelivered,
	TriggerCancel:  StatusCancelled,
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Next resolves the status a trigger leads to from the given status.
func Next(from Status, t Trigger) (Status, bool) {
	to, ok := triggerTargets[t]
	if !ok || !CanTransition(from, to) {
		return from, false
	}
	return to, true
}

func (s Status) Terminal() bool {
	_, ok := AllowedTransitions[s]
	return !ok
}

// nextStage is the trigger the simulation fires after reaching a status.
var nextStage = map[Status]Trigger{
	StatusConfirmed: TriggerPrepare,
	StatusPreparing: TriggerAssign,
	StatusAssigned:  TriggerDepart,
}
