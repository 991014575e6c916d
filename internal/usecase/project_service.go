package usecase

import (
	"context"
	"fmt"
	"io"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/utils"
	"uas-projects-service/templates"
)

// ProjectService applies normalization, validation and aggregate rules on top of a project store
type ProjectService struct {
	repo   repository.ProjectRepository
	logger logger.Logger
}

// SaveResult reports the outcome of a create-or-update
type SaveResult struct {
	Created bool
	Project *entity.Project
}

// PortfolioSummary aggregates totals across all projects
type PortfolioSummary struct {
	ProjectCount       int    `json:"projectCount"`
	TotalFlightMinutes int    `json:"totalFlightMinutes"`
	TotalFlightTime    string `json:"totalFlightTime"`
	TotalManDays       int    `json:"totalManDays"`
	CrewCount          int    `json:"crewCount"`
}

// ImportResult counts the projects written by an import
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Suggestions lists values already used in a project's flights
type Suggestions struct {
	Pilots  []string `json:"pilots"`
	Drones  []string `json:"drones"`
	Serials []string `json:"serials"`
}

// NewProjectService creates a new project service
func NewProjectService(repo repository.ProjectRepository, logger logger.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all projects with stored derived values untouched
func (s *ProjectService) List(ctx context.Context) ([]*entity.Project, error) {
	return s.repo.ListAll(ctx)
}

// Get returns one project or repository.ErrProjectNotFound
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// Save normalizes and validates the project, then upserts it.
// A non-zero project.Revision is used as the expected stored revision.
func (s *ProjectService) Save(ctx context.Context, project *entity.Project) (SaveResult, error) {
	NormalizeProject(project)
	if err := ValidateProject(project); err != nil {
		return SaveResult{}, err
	}

	res, err := s.repo.Upsert(ctx, project, project.Revision)
	if err != nil {
		return SaveResult{}, err
	}

	s.logger.Info("Project saved",
		"id", project.ID,
		"created", res.Created,
		"revision", project.Revision,
		"flights", len(project.Flights),
		"crew", len(project.Crew))
	return SaveResult{Created: res.Created, Project: project}, nil
}

// Delete removes a project; unknown ids succeed
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Project deleted", "id", id)
	return nil
}

// Totals computes the aggregates of one project
func (s *ProjectService) Totals(ctx context.Context, id string) (entity.ProjectTotals, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return entity.ProjectTotals{}, err
	}
	return utils.ProjectTotals(p), nil
}

// Summary adds up the totals of every project
func (s *ProjectService) Summary(ctx context.Context) (PortfolioSummary, error) {
	projects, err := s.repo.ListAll(ctx)
	if err != nil {
		return PortfolioSummary{}, err
	}

	summary := PortfolioSummary{ProjectCount: len(projects)}
	for _, p := range projects {
		t := utils.ProjectTotals(p)
		summary.TotalFlightMinutes += t.TotalFlightMinutes
		summary.TotalManDays += t.TotalManDays
		summary.CrewCount += t.CrewCount
	}
	summary.TotalFlightTime = utils.MinutesToHHMM(summary.TotalFlightMinutes)
	return summary, nil
}

// Suggestions returns distinct pilots, drones and serials of a project
func (s *ProjectService) Suggestions(ctx context.Context, id string) (Suggestions, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Suggestions{}, err
	}
	pilots, drones, serials := utils.FlightSuggestions(p.Flights)
	return Suggestions{Pilots: pilots, Drones: drones, Serials: serials}, nil
}

// Import validates every project first and then upserts them in order,
// overwriting existing ones regardless of revision
func (s *ProjectService) Import(ctx context.Context, projects []*entity.Project) (ImportResult, error) {
	for i, p := range projects {
		if p == nil {
			return ImportResult{}, &ValidationError{Field: fmt.Sprintf("[%d]", i), Message: "must be an object"}
		}
		NormalizeProject(p)
		if err := ValidateProject(p); err != nil {
			return ImportResult{}, fmt.Errorf("project %d: %w", i, err)
		}
	}

	var result ImportResult
	for _, p := range projects {
		res, err := s.repo.Upsert(ctx, p, 0)
		if err != nil {
			return result, fmt.Errorf("import project %s: %w", p.ID, err)
		}
		if res.Created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("Projects imported", "created", result.Created, "updated", result.Updated)
	return result, nil
}

// Flight orders accepted by ExportFlightLog
const (
	OrderStored = ""
	OrderNewest = "newest"
	OrderOldest = "oldest"
)

// ExportFlightLog writes the project's flights as CSV and returns the file name.
// It returns ErrNoFlights when there is nothing to export.
func (s *ProjectService) ExportFlightLog(ctx context.Context, id, order string, w io.Writer) (string, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if len(p.Flights) == 0 {
		return "", ErrNoFlights
	}
	flights := p.Flights
	switch order {
	case OrderStored:
	case OrderNewest, OrderOldest:
		flights = utils.SortFlights(flights, order == OrderNewest)
	default:
		return "", &ValidationError{Field: "order", Message: fmt.Sprintf("must be %q or %q", OrderNewest, OrderOldest)}
	}
	if err := templates.WriteFlightLogCSV(w, flights); err != nil {
		return "", fmt.Errorf("write flight log: %w", err)
	}
	return templates.FlightLogFileName(p.Name), nil
}
