package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/travelplanner/internal/domain"
)

type PlaceStore struct {
	q       querier
	dialect string
}

func NewPlaceStore(db *sql.DB, dialect string) *PlaceStore {
	return &PlaceStore{q: db, dialect: dialect}
}

func (s *PlaceStore) Create(ctx context.Context, projectID, externalID int64, note *string) (*domain.Place, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, rebind(s.dialect, `
		INSERT INTO project_places (project_id, external_id, note) VALUES (?, ?, ?) RETURNING id
	`), projectID, externalID, note).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the place, or nil if it does not exist.
func (s *PlaceStore) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	place := &domain.Place{}
	err := s.q.QueryRowContext(ctx, rebind(s.dialect, `
		SELECT id, project_id, external_id, note, is_visited, created_at FROM project_places WHERE id = ?
	`), id).Scan(&place.ID, &place.ProjectID, &place.ExternalID, &place.Note, &place.IsVisited, &place.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return place, nil
}

// ListByProjectID returns a project's places in insertion order.
func (s *PlaceStore) ListByProjectID(ctx context.Context, projectID int64) ([]*domain.Place, error) {
	return s.list(ctx, rebind(s.dialect, `
		SELECT id, project_id, external_id, note, is_visited, created_at FROM project_places
		WHERE project_id = ? ORDER BY id ASC
	`), projectID)
}

// List returns every place across all projects, ordered by project then insertion.
func (s *PlaceStore) List(ctx context.Context) ([]*domain.Place, error) {
	return s.list(ctx, `
		SELECT id, project_id, external_id, note, is_visited, created_at FROM project_places
		ORDER BY project_id ASC, id ASC
	`)
}

func (s *PlaceStore) CountByProjectID(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx, rebind(s.dialect, `
		SELECT COUNT(*) FROM project_places WHERE project_id = ?
	`), projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}
	return count, nil
}

// ExistsInProject reports whether the project already holds a place for externalID.
func (s *PlaceStore) ExistsInProject(ctx context.Context, projectID, externalID int64) (bool, error) {
	var count int
	err := s.q.QueryRowContext(ctx, rebind(s.dialect, `
		SELECT COUNT(*) FROM project_places WHERE project_id = ? AND external_id = ?
	`), projectID, externalID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to look up place: %w", err)
	}
	return count > 0, nil
}

func (s *PlaceStore) SetVisited(ctx context.Context, id int64, visited bool) error {
	result, err := s.q.ExecContext(ctx, rebind(s.dialect, `
		UPDATE project_places SET is_visited = ? WHERE id = ?
	`), visited, id)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *PlaceStore) list(ctx context.Context, query string, args ...any) ([]*domain.Place, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var places []*domain.Place
	for rows.Next() {
		place := &domain.Place{}
		if err := rows.Scan(&place.ID, &place.ProjectID, &place.ExternalID, &place.Note, &place.IsVisited, &place.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	return places, nil
}
