package dto

type ScheduleResponse struct {
	Name           string `json:"name"`
	HeadwayMinutes int    `json:"headway_minutes"`
	FirstLeave     string `json:"first_leave"`
	Boundary       string `json:"boundary"`
}

type RouteSummaryResponse struct {
	RouteID   int    `json:"route_id"`
	Name      string `json:"name"`
	Committed bool   `json:"committed"`
	Dirty     bool   `json:"dirty"`
	Current   bool   `json:"current"`
}

type ListRoutesResponse struct {
	Routes []RouteSummaryResponse `json:"routes"`
}

// RouteResponse shows the working buffers next to the applied state.
type RouteResponse struct {
	RouteID         int              `json:"route_id"`
	Committed       bool             `json:"committed"`
	Dirty           bool             `json:"dirty"`
	Stops           []int            `json:"stops"`
	TravelMinutes   []int            `json:"travel_minutes"`
	ReachableNext   []int            `json:"reachable_next"`
	Closed          bool             `json:"closed"`
	CanUndo         bool             `json:"can_undo"`
	Schedule        ScheduleResponse `json:"schedule"`
	AppliedStops    []int            `json:"applied_stops"`
	AppliedSchedule ScheduleResponse `json:"applied_schedule"`
}

type AppendStopRequest struct {
	StopID *int `json:"stop_id" validate:"required,gte=0"`
}

// UpdateScheduleRequest changes only the fields that are present.
type UpdateScheduleRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	HeadwayMinutes *int    `json:"headway_minutes" validate:"omitempty,min=1,max=1439"`
	FirstLeave     *string `json:"first_leave" validate:"omitempty,datetime=15:04"`
	Boundary       *string `json:"boundary" validate:"omitempty,datetime=15:04"`
}

type CommitResponse struct {
	Committed bool          `json:"committed"`
	Route     RouteResponse `json:"route"`
}
