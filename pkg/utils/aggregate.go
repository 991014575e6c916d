package utils

import (
	"math"
	"sort"
	"time"

	"uas-projects-service/internal/domain/entity"
)

// FlightDurationMinutes returns the whole minutes between takeoff and landing,
// rounded to the nearest minute. Missing, unparseable or out of order values give 0.
func FlightDurationMinutes(takeoff, landing string) int {
	start, ok := ParseTimestamp(takeoff)
	if !ok {
		return 0
	}
	end, ok := ParseTimestamp(landing)
	if !ok || !end.After(start) {
		return 0
	}
	return int(math.Round(float64(end.Sub(start)) / float64(time.Minute)))
}

// ManDays returns the inclusive number of days between dateIn and dateOut.
// An empty dateOut counts as dateIn.
func ManDays(dateIn, dateOut string) int {
	in, ok := ParseDate(dateIn)
	if !ok {
		return 0
	}
	out := in
	if dateOut != "" {
		if out, ok = ParseDate(dateOut); !ok {
			return 0
		}
	}
	if out.Before(in) {
		return 0
	}
	return int(out.Sub(in).Milliseconds()/millisPerDay) + 1
}

// CrewManDays prefers the stored value and recomputes when it is missing
func CrewManDays(c entity.CrewEntry) int {
	if c.Mandays > 0 {
		return c.Mandays
	}
	return ManDays(c.DateIn, c.DateOut)
}

// ProjectTotals sums stored flight durations and crew man-days
func ProjectTotals(p *entity.Project) entity.ProjectTotals {
	var totals entity.ProjectTotals
	if p == nil {
		return totals
	}
	for _, f := range p.Flights {
		if f.DurationMins > 0 {
			totals.TotalFlightMinutes += f.DurationMins
		}
	}
	for _, c := range p.Crew {
		totals.TotalManDays += CrewManDays(c)
	}
	totals.CrewCount = len(p.Crew)
	return totals
}

// SortFlights returns a copy of flights ordered by takeoff time.
// Unparseable takeoffs sort as the Unix epoch.
func SortFlights(flights []entity.Flight, newestFirst bool) []entity.Flight {
	sorted := append([]entity.Flight(nil), flights...)
	key := func(f entity.Flight) time.Time {
		if t, ok := ParseTimestamp(f.Takeoff); ok {
			return t
		}
		return time.Unix(0, 0).UTC()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := key(sorted[i]), key(sorted[j])
		if newestFirst {
			return a.After(b)
		}
		return a.Before(b)
	})
	return sorted
}

// FlightSuggestions collects distinct pilots, drones and serials in first-seen order
func FlightSuggestions(flights []entity.Flight) (pilots, drones, serials []string) {
	pilots, drones, serials = []string{}, []string{}, []string{}
	seen := map[string]map[string]bool{"p": {}, "d": {}, "s": {}}
	add := func(kind, v string, dst *[]string) {
		if v == "" || seen[kind][v] {
			return
		}
		seen[kind][v] = true
		*dst = append(*dst, v)
	}
	for _, f := range flights {
		add("p", f.Pilot, &pilots)
		add("d", f.Drone, &drones)
		add("s", f.Serial, &serials)
	}
	return pilots, drones, serials
}
