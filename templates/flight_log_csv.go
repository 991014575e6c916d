package templates

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/pkg/utils"
)

// FlightLogHeader is the first line of a flight log export
var FlightLogHeader = []string{
	"Flight ID", "Pilot", "Drone", "Serial", "Battery ID",
	"Takeoff", "Landing", "Duration (HH:MM)", "Remarks",
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FlightLogFileName builds the download name for a project's flight log
func FlightLogFileName(projectName string) string {
	return unsafeFileChars.ReplaceAllString(projectName, "_") + "_flight_logs.csv"
}

// FlightLogRow renders one flight as export columns
func FlightLogRow(f entity.Flight) []string {
	return []string{
		f.FlightID,
		f.Pilot,
		f.Drone,
		f.Serial,
		f.Battery,
		utils.FormatDateTime12(f.Takeoff),
		utils.FormatDateTime12(f.Landing),
		utils.MinutesToHHMM(f.DurationMins),
		f.Remarks,
	}
}

// WriteFlightLogCSV writes the header line and one quoted line per flight.
// Every data field is wrapped in double quotes with embedded quotes doubled.
func WriteFlightLogCSV(w io.Writer, flights []entity.Flight) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(FlightLogHeader, ","))
	for _, f := range flights {
		row := FlightLogRow(f)
		quoted := make([]string, len(row))
		for i, field := range row {
			quoted[i] = quoteField(field)
		}
		bw.WriteString("\n")
		bw.WriteString(strings.Join(quoted, ","))
	}
	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ProjectSummary renders a short plain-text description of a project
func ProjectSummary(p *entity.Project) string {
	totals := utils.ProjectTotals(p)

	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteString(" (" + p.ID + ")\n")
	if p.Client != "" {
		sb.WriteString("Client:   " + p.Client + "\n")
	}
	if p.Location != "" {
		sb.WriteString("Location: " + p.Location + "\n")
	}
	if p.StartDate != "" || p.EndDate != "" {
		sb.WriteString("Dates:    " + utils.FormatDateMMDD(p.StartDate) + " - " + utils.FormatDateMMDD(p.EndDate) + "\n")
	}
	sb.WriteString("Flights:  " + strconv.Itoa(len(p.Flights)) + " (" + utils.MinutesToHHMM(totals.TotalFlightMinutes) + ")\n")
	sb.WriteString("Crew:     " + strconv.Itoa(totals.CrewCount) + " (" + strconv.Itoa(totals.TotalManDays) + " man-days)\n")
	return sb.String()
}
