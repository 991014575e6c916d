// internal/domain/entity/project.go
package entity

import (
	"time"
)

// Project is the aggregate root for one drone operation engagement.
// Flights and crew are embedded and always rewritten together with the project.
type Project struct {
	ID          string      `json:"id" bson:"id"` // business id, client generated
	Name        string      `json:"name" bson:"name"`
	Client      string      `json:"client" bson:"client"`
	Location    string      `json:"location" bson:"location"`
	StartDate   string      `json:"startDate" bson:"startDate"`
	EndDate     string      `json:"endDate" bson:"endDate"`
	Description string      `json:"description" bson:"description"`
	Flights     []Flight    `json:"flights" bson:"flights"`
	Crew        []CrewEntry `json:"crew" bson:"crew"`
	Revision    int64       `json:"revision" bson:"revision"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Flight is a single logged drone flight.
type Flight struct {
	ID           string `json:"id" bson:"id"`
	FlightID     string `json:"flightId" bson:"flightId"`
	Pilot        string `json:"pilot" bson:"pilot"`
	Drone        string `json:"drone" bson:"drone"`
	Serial       string `json:"serial" bson:"serial"`
	Battery      string `json:"battery" bson:"battery"`
	Takeoff      string `json:"takeoff" bson:"takeoff"`
	Landing      string `json:"landing" bson:"landing"`
	DurationMins int    `json:"durationMins" bson:"durationMins"`
	Remarks      string `json:"remarks" bson:"remarks"`
}

// CrewEntry records the on-site dates of one crew member.
type CrewEntry struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Role    string `json:"role" bson:"role"`
	DateIn  string `json:"dateIn" bson:"dateIn"`
	DateOut string `json:"dateOut" bson:"dateOut"`
	Mandays int    `json:"mandays" bson:"mandays"`
}

// ProjectTotals holds the display aggregates of a project.
type ProjectTotals struct {
	TotalFlightMinutes int `json:"totalFlightMinutes"`
	TotalManDays       int `json:"totalManDays"`
	CrewCount          int `json:"crewCount"`
}

// EnsureCollections replaces nil flight and crew slices with empty ones
// so they serialize as [] instead of null.
func (p *Project) EnsureCollections() {
	if p.Flights == nil {
		p.Flights = []Flight{}
	}
	if p.Crew == nil {
		p.Crew = []CrewEntry{}
	}
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	c.Flights = append([]Flight(nil), p.Flights...)
	c.Crew = append([]CrewEntry(nil), p.Crew...)
	c.EnsureCollections()
	return &c
}
