package domain

// StoreLocation is the pickup point an agent operates from.
type StoreLocation struct {
	LocationName string
	Coords       Coordinates
}

// Agent is a delivery agent ("mitra"), looked up by phone number at login.
// Immutable once fetched; exists for the session only.
type Agent struct {
	AgentID     int
	PhoneNumber string
	Store       StoreLocation
}
