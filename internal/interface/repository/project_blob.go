package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"uas-projects-service/internal/domain/entity"
)

// encodeCollections serializes the embedded flights and crew for relational backends
func encodeCollections(p *entity.Project) (string, string, error) {
	p.EnsureCollections()
	flights, err := json.Marshal(p.Flights)
	if err != nil {
		return "", "", fmt.Errorf("encode flights: %w", err)
	}
	crew, err := json.Marshal(p.Crew)
	if err != nil {
		return "", "", fmt.Errorf("encode crew: %w", err)
	}
	return string(flights), string(crew), nil
}

// decodeCollections parses stored flight and crew blobs. Empty or null blobs give empty slices.
func decodeCollections(flightsBlob, crewBlob string) ([]entity.Flight, []entity.CrewEntry, error) {
	flights := []entity.Flight{}
	if s := strings.TrimSpace(flightsBlob); s != "" && s != "null" {
		if err := json.Unmarshal([]byte(s), &flights); err != nil {
			return nil, nil, fmt.Errorf("decode flights: %w", err)
		}
	}
	crew := []entity.CrewEntry{}
	if s := strings.TrimSpace(crewBlob); s != "" && s != "null" {
		if err := json.Unmarshal([]byte(s), &crew); err != nil {
			return nil, nil, fmt.Errorf("decode crew: %w", err)
		}
	}
	if flights == nil {
		flights = []entity.Flight{}
	}
	if crew == nil {
		crew = []entity.CrewEntry{}
	}
	return flights, crew, nil
}
