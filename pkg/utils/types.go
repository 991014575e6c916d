package utils

// Constants
const (
	DATE_LAYOUT         = "2006-01-02"
	DATE_DISPLAY_LAYOUT = "01/02/2006"
	DATETIME12_LAYOUT   = "01/02/2006 03:04 PM"

	millisPerDay = 24 * 60 * 60 * 1000
)
