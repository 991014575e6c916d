package usecase

import "errors"

// ErrNoFlights is returned when a flight log export has no rows
var ErrNoFlights = errors.New("no flight logs to export")
