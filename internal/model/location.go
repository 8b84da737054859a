package model

// Location kinds the service knows about. The set is open; the server
// accepts any non-empty kind string.
const (
	KindRestaurant   = "restaurant"
	KindClimbingGym  = "climbing_gym"
	KindSkiResort    = "ski_resort"
	KindCity         = "city"
	KindRunningRoute = "running_route"
	KindHikingRoute  = "hiking_route"
)

type Location struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Kind        string  `json:"kind"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateLocationRequest struct {
	Title       string  `json:"title" validate:"required"`
	Kind        string  `json:"kind" validate:"required"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lon         float64 `json:"lon" validate:"longitude"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}
