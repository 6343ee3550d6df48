package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/travelplanner/internal/catalog"
	"github.com/vbonduro/travelplanner/internal/domain"
	"github.com/vbonduro/travelplanner/internal/store"
)

// projectRepository is the subset of store.ProjectStore that ProjectService requires.
type projectRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
}

// placeRepository is the subset of store.PlaceStore that ProjectService requires.
type placeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	ListByProjectID(ctx context.Context, projectID int64) ([]*domain.Place, error)
	SetVisited(ctx context.Context, id int64, visited bool) error
}

// unitOfWork runs multi-statement work in a single transaction.
type unitOfWork interface {
	WithTx(ctx context.Context, fn func(tx *store.Store) error) error
	WithReadTx(ctx context.Context, fn func(tx *store.Store) error) error
	Ping(ctx context.Context) error
}

type ProjectService struct {
	projects projectRepository
	places   placeRepository
	uow      unitOfWork
	catalog  catalog.Validator
	logger   *slog.Logger
}

func NewProjectService(
	projects projectRepository,
	places placeRepository,
	uow unitOfWork,
	validator catalog.Validator,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		places:   places,
		uow:      uow,
		catalog:  validator,
		logger:   logger,
	}
}

// CreateProject validates every proposed place against the catalog before
// writing anything, then stores the project and its places in one transaction.
// Duplicate external ids within the request are accepted.
func (s *ProjectService) CreateProject(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	if len(in.Places) > domain.MaxPlacesPerProject {
		return nil, fmt.Errorf("%w: a project holds at most %d places, got %d",
			domain.ErrCapacityExceeded, domain.MaxPlacesPerProject, len(in.Places))
	}

	for _, p := range in.Places {
		if !s.validate(ctx, p.ExternalID) {
			return nil, fmt.Errorf("%w: artwork %d", domain.ErrArtworkNotFound, p.ExternalID)
		}
	}

	var project *domain.Project
	err := s.uow.WithTx(ctx, func(tx *store.Store) error {
		created, err := tx.Projects.Create(ctx, in.Name, in.Description, in.StartDate)
		if err != nil {
			return err
		}
		created.Places = make([]*domain.Place, 0, len(in.Places))
		for _, p := range in.Places {
			place, err := tx.Places.Create(ctx, created.ID, p.ExternalID, p.Note)
			if err != nil {
				return err
			}
			created.Places = append(created.Places, place)
		}
		project = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created", "project_id", project.ID, "places", len(project.Places))
	return project, nil
}

// ListProjects reads projects and places in one transaction so a project
// created concurrently is never listed with a partial place set.
func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	var places []*domain.Place
	err := s.uow.WithReadTx(ctx, func(tx *store.Store) error {
		var err error
		if projects, err = tx.Projects.List(ctx); err != nil {
			return err
		}
		places, err = tx.Places.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	byProject := make(map[int64][]*domain.Place, len(projects))
	for _, place := range places {
		byProject[place.ProjectID] = append(byProject[place.ProjectID], place)
	}
	for _, project := range projects {
		project.Places = byProject[project.ID]
		if project.Places == nil {
			project.Places = []*domain.Place{}
		}
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return loadProject(ctx, s.projects, s.places, projectID)
}

// AddPlace appends one place to an existing project. The cheap local checks
// run before the catalog lookup, and the catalog lookup runs outside any
// transaction.
func (s *ProjectService) AddPlace(ctx context.Context, projectID int64, in domain.NewPlace) (*domain.Project, error) {
	project, err := loadProject(ctx, s.projects, s.places, projectID)
	if err != nil {
		return nil, err
	}

	if err := checkCanAdd(project.Places, in.ExternalID); err != nil {
		return nil, err
	}

	if !s.validate(ctx, in.ExternalID) {
		return nil, fmt.Errorf("%w: artwork %d", domain.ErrArtworkNotFound, in.ExternalID)
	}

	var updated *domain.Project
	err = s.uow.WithTx(ctx, func(tx *store.Store) error {
		// Re-check under the write transaction; another request may have
		// added places while the catalog was being queried.
		count, err := tx.Places.CountByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		if count >= domain.MaxPlacesPerProject {
			return fmt.Errorf("%w: project already has %d places", domain.ErrCapacityExceeded, domain.MaxPlacesPerProject)
		}
		exists, err := tx.Places.ExistsInProject(ctx, projectID, in.ExternalID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: artwork %d", domain.ErrDuplicateArtwork, in.ExternalID)
		}

		if _, err := tx.Places.Create(ctx, projectID, in.ExternalID, in.Note); err != nil {
			return err
		}
		updated, err = loadProject(ctx, tx.Projects, tx.Places, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("place added", "project_id", projectID, "external_id", in.ExternalID, "places", len(updated.Places))
	return updated, nil
}

// SetProjectCompleted overwrites the completion flag; completed projects may be reopened.
func (s *ProjectService) SetProjectCompleted(ctx context.Context, projectID int64, completed bool) (*domain.Project, error) {
	if err := s.projects.SetCompleted(ctx, projectID, completed); err != nil {
		return nil, err
	}
	return loadProject(ctx, s.projects, s.places, projectID)
}

func (s *ProjectService) SetPlaceVisited(ctx context.Context, placeID int64, visited bool) (*domain.Place, error) {
	if err := s.places.SetVisited(ctx, placeID, visited); err != nil {
		return nil, err
	}

	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, fmt.Errorf("place %d: %w", placeID, domain.ErrNotFound)
	}
	return place, nil
}

// Ping reports whether the backing store is reachable.
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.uow.Ping(ctx)
}

func (s *ProjectService) validate(ctx context.Context, externalID int64) bool {
	if looker, ok := s.catalog.(catalog.Looker); ok {
		result := looker.Lookup(ctx, externalID)
		if result != catalog.Found {
			s.logger.Info("artwork rejected", "external_id", externalID, "reason", result.String())
		}
		return result == catalog.Found
	}
	return s.catalog.Exists(ctx, externalID)
}

func loadProject(ctx context.Context, projects projectRepository, places placeRepository, projectID int64) (*domain.Project, error) {
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
	}

	projectPlaces, err := places.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if projectPlaces == nil {
		projectPlaces = []*domain.Place{}
	}
	project.Places = projectPlaces
	return project, nil
}

// checkCanAdd enforces capacity before duplication.
func checkCanAdd(places []*domain.Place, externalID int64) error {
	if len(places) >= domain.MaxPlacesPerProject {
		return fmt.Errorf("%w: project already has %d places", domain.ErrCapacityExceeded, domain.MaxPlacesPerProject)
	}
	for _, p := range places {
		if p.ExternalID == externalID {
			return fmt.Errorf("%w: artwork %d", domain.ErrDuplicateArtwork, externalID)
		}
	}
	return nil
}
