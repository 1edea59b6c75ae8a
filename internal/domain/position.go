package domain

// Immutable position of a stop on the city map.
type Position struct {
	X int
	Y int
}

// Return the position as [x, y] for external encoders.
func (p Position) ToList() []int { return []int{p.X, p.Y} }
