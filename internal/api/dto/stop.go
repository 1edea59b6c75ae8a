package dto

type StopResponse struct {
	StopID    int         `json:"stop_id"`
	Position  []int       `json:"position"`
	Neighbors map[int]int `json:"neighbors"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
