package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uas-projects-service/internal/domain/entity"
)

func TestFlightDurationMinutes(t *testing.T) {
	tests := []struct {
		name    string
		takeoff string
		landing string
		want    int
	}{
		{"datetime-local", "2024-01-01T10:00", "2024-01-01T10:45", 45},
		{"rounds half up", "2024-01-01T10:00:00", "2024-01-01T10:00:30", 1},
		{"rounds down", "2024-01-01T10:00:00", "2024-01-01T10:10:29", 10},
		{"rfc3339 with zones", "2024-01-01T10:00:00+02:00", "2024-01-01T09:30:00Z", 90},
		{"across midnight", "2024-01-01T23:30", "2024-01-02T00:15", 45},
		{"landing before takeoff", "2024-01-01T10:45", "2024-01-01T10:00", 0},
		{"equal", "2024-01-01T10:00", "2024-01-01T10:00", 0},
		{"missing takeoff", "", "2024-01-01T10:00", 0},
		{"missing landing", "2024-01-01T10:00", "", 0},
		{"garbage", "yesterday", "today", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlightDurationMinutes(tt.takeoff, tt.landing))
		})
	}
}

func TestManDays(t *testing.T) {
	tests := []struct {
		name    string
		dateIn  string
		dateOut string
		want    int
	}{
		{"three days inclusive", "2024-01-01", "2024-01-03", 3},
		{"same day", "2024-01-01", "2024-01-01", 1},
		{"missing date out defaults to date in", "2024-01-01", "", 1},
		{"across month", "2024-01-30", "2024-02-02", 4},
		{"leap day", "2024-02-28", "2024-03-01", 3},
		{"out before in", "2024-01-03", "2024-01-01", 0},
		{"missing date in", "", "2024-01-01", 0},
		{"invalid date in", "soon", "2024-01-01", 0},
		{"invalid date out", "2024-01-01", "later", 0},
		{"timestamps truncate to dates", "2024-01-01T23:00", "2024-01-02T01:00", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ManDays(tt.dateIn, tt.dateOut))
		})
	}
}

func TestProjectTotals(t *testing.T) {
	p := &entity.Project{
		ID: "a1",
		Flights: []entity.Flight{
			{ID: "f1", DurationMins: 45},
			{ID: "f2", DurationMins: 30},
			{ID: "f3"},
		},
		Crew: []entity.CrewEntry{
			{ID: "c1", DateIn: "2024-01-01", DateOut: "2024-01-03"},
			{ID: "c2", DateIn: "2024-01-01", Mandays: 7},
			{ID: "c3", DateIn: "bad"},
		},
	}

	totals := ProjectTotals(p)
	assert.Equal(t, 75, totals.TotalFlightMinutes)
	assert.Equal(t, 10, totals.TotalManDays)
	assert.Equal(t, 3, totals.CrewCount)
}

func TestProjectTotals_EmptyAndNil(t *testing.T) {
	assert.Equal(t, entity.ProjectTotals{}, ProjectTotals(nil))
	assert.Equal(t, entity.ProjectTotals{}, ProjectTotals(&entity.Project{ID: "x"}))
}

func TestSortFlights(t *testing.T) {
	flights := []entity.Flight{
		{ID: "mid", Takeoff: "2024-01-02T10:00"},
		{ID: "bad", Takeoff: "nope"},
		{ID: "new", Takeoff: "2024-01-03T10:00"},
		{ID: "old", Takeoff: "2024-01-01T10:00"},
	}

	ids := func(fs []entity.Flight) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.ID
		}
		return out
	}

	assert.Equal(t, []string{"new", "mid", "old", "bad"}, ids(SortFlights(flights, true)))
	assert.Equal(t, []string{"bad", "old", "mid", "new"}, ids(SortFlights(flights, false)))
	// input untouched
	assert.Equal(t, "mid", flights[0].ID)
}

func TestMinutesToHHMM(t *testing.T) {
	assert.Equal(t, "0:00", MinutesToHHMM(0))
	assert.Equal(t, "0:45", MinutesToHHMM(45))
	assert.Equal(t, "2:05", MinutesToHHMM(125))
	assert.Equal(t, "0:00", MinutesToHHMM(-3))
}

func TestFormatDateTime12(t *testing.T) {
	assert.Equal(t, "01/01/2024 10:05 AM", FormatDateTime12("2024-01-01T10:05"))
	assert.Equal(t, "01/01/2024 12:00 AM", FormatDateTime12("2024-01-01T00:00"))
	assert.Equal(t, "07/04/2024 01:30 PM", FormatDateTime12("2024-07-04T13:30"))
	assert.Equal(t, "", FormatDateTime12(""))
	assert.Equal(t, "03/15/2024", FormatDateMMDD("2024-03-15"))
}

func TestFlightSuggestions(t *testing.T) {
	pilots, drones, serials := FlightSuggestions([]entity.Flight{
		{Pilot: "Ana", Drone: "M300", Serial: "S1"},
		{Pilot: "Ben", Drone: "M300"},
		{Pilot: "Ana", Drone: "Mavic 3", Serial: "S2"},
	})
	assert.Equal(t, []string{"Ana", "Ben"}, pilots)
	assert.Equal(t, []string{"M300", "Mavic 3"}, drones)
	assert.Equal(t, []string{"S1", "S2"}, serials)
}
