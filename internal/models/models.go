package models

import "time"

// Booking field names are wire-sensitive: the customer and agent portals
// consume them as-is, so json tags follow the API contract, not Go style.
type Booking struct {
	ID               string     `json:"id"`
	Customer         string     `json:"customer"`
	CustomerID       int64      `json:"customer_id"`
	CustomerPhone    string     `json:"customerPhone"`
	Service          string     `json:"service"`
	Location         string     `json:"location"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	Instructions     string     `json:"instructions"`
	Status           string     `json:"status"`
	LocationVerified bool       `json:"locationVerified"`
	QueuePosition    *int       `json:"queuePosition"`
	TotalInQueue     *int       `json:"totalInQueue"`
	Progress         int        `json:"progress"`
	EstimatedCost    *float64   `json:"estimatedCost"`
	FinalCost        *float64   `json:"finalCost"`
	DurationMinutes  *int       `json:"durationMinutes"`
	AgentPayout      *float64   `json:"agentPayout"`
	Agent            *AgentInfo `json:"agent"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// AgentInfo is the denormalized agent sub-object joined onto booking
// projections. Nil while the booking is Pending.
type AgentInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ETA      string `json:"eta"`
	Phone    string `json:"phone"`
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Agent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Password    string  `json:"-"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	ETA         string  `json:"eta"`
	IsAvailable bool    `json:"isAvailable"`
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// ChatMessage rows live inside the booking's chat_history JSONB column.
// ID is unix milliseconds at append time (the front-end uses it as a list key).
type ChatMessage struct {
	ID          int64     `json:"id"`
	Sender      string    `json:"sender"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}
