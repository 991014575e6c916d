package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/pkg/utils"
)

// ValidationError describes a missing or inconsistent field in a submitted project
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

// NormalizeProject trims text, fills generated ids and recomputes derived values
// from raw timestamps where they parse. Stored values are kept otherwise.
func NormalizeProject(p *entity.Project) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Client = strings.TrimSpace(p.Client)
	p.Location = strings.TrimSpace(p.Location)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.EnsureCollections()

	for i := range p.Flights {
		f := &p.Flights[i]
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.FlightID = strings.TrimSpace(f.FlightID)
		f.Pilot = strings.TrimSpace(f.Pilot)
		f.Drone = strings.TrimSpace(f.Drone)
		f.Serial = strings.TrimSpace(f.Serial)
		f.Battery = strings.TrimSpace(f.Battery)
		f.Takeoff = strings.TrimSpace(f.Takeoff)
		f.Landing = strings.TrimSpace(f.Landing)
		f.Remarks = strings.TrimSpace(f.Remarks)

		_, okTakeoff := utils.ParseTimestamp(f.Takeoff)
		_, okLanding := utils.ParseTimestamp(f.Landing)
		if okTakeoff && okLanding {
			f.DurationMins = utils.FlightDurationMinutes(f.Takeoff, f.Landing)
		}
		if f.DurationMins < 0 {
			f.DurationMins = 0
		}
	}

	for i := range p.Crew {
		c := &p.Crew[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.Name = strings.TrimSpace(c.Name)
		c.Role = strings.TrimSpace(c.Role)
		c.DateIn = strings.TrimSpace(c.DateIn)
		c.DateOut = strings.TrimSpace(c.DateOut)
		if c.DateOut == "" {
			c.DateOut = c.DateIn
		}
		if _, ok := utils.ParseDate(c.DateIn); ok {
			c.Mandays = utils.ManDays(c.DateIn, c.DateOut)
		}
		if c.Mandays < 0 {
			c.Mandays = 0
		}
	}
}

// ValidateProject performs presence checks on a normalized project
func ValidateProject(p *entity.Project) error {
	if p.Name == "" {
		return required("name")
	}

	flightIDs := make(map[string]bool, len(p.Flights))
	for i, f := range p.Flights {
		field := func(name string) string { return fmt.Sprintf("flights[%d].%s", i, name) }
		if flightIDs[f.ID] {
			return &ValidationError{Field: field("id"), Message: fmt.Sprintf("duplicate id %q", f.ID)}
		}
		flightIDs[f.ID] = true

		switch {
		case f.FlightID == "":
			return required(field("flightId"))
		case f.Pilot == "":
			return required(field("pilot"))
		case f.Drone == "":
			return required(field("drone"))
		case f.Battery == "":
			return required(field("battery"))
		case f.Takeoff == "":
			return required(field("takeoff"))
		case f.Landing == "":
			return required(field("landing"))
		}
	}

	crewIDs := make(map[string]bool, len(p.Crew))
	for i, c := range p.Crew {
		field := func(name string) string { return fmt.Sprintf("crew[%d].%s", i, name) }
		if crewIDs[c.ID] {
			return &ValidationError{Field: field("id"), Message: fmt.Sprintf("duplicate id %q", c.ID)}
		}
		crewIDs[c.ID] = true

		switch {
		case c.Name == "":
			return required(field("name"))
		case c.Role == "":
			return required(field("role"))
		case c.DateIn == "":
			return required(field("dateIn"))
		}
	}
	return nil
}
