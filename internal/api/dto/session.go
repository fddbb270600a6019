package dto

type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type PointRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type StrokeRequest struct {
	Points []PointRequest `json:"points"`
}

type AgentResponse struct {
	AgentID     int    `json:"agent_id"`
	PhoneNumber string `json:"phone_number"`
	StoreName   string `json:"store_name"`
}

type TaskResponse struct {
	OrderID         int      `json:"order_id"`
	Status          string   `json:"status"`
	CustomerName    string   `json:"customer_name"`
	DeliveryAddress string   `json:"delivery_address"`
	DistanceKm      *float64 `json:"distance_km"`
	CongestionScore *int     `json:"congestion_score"`
	EtdMinutes      *int     `json:"etd_minutes"`
	MapURL          string   `json:"map_url,omitempty"`
}

type SessionResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	State     string         `json:"state"`
	Agent     *AgentResponse `json:"agent,omitempty"`
	Task      *TaskResponse  `json:"task"`
}
