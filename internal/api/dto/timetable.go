package dto

type StopArrivalsResponse struct {
	StopID   int      `json:"stop_id"`
	Arrivals []string `json:"arrivals"`
}

type TimetableResponse struct {
	RouteName          string                 `json:"route_name"`
	BusCount           int                    `json:"bus_count"`
	HeadwayMinutes     int                    `json:"headway_minutes"`
	TotalTravelMinutes int                    `json:"total_travel_minutes"`
	Stops              []StopArrivalsResponse `json:"stops"`
}
