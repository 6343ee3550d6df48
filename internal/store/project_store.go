package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/travelplanner/internal/domain"
)

const dateLayout = "2006-01-02"

type ProjectStore struct {
	q       querier
	dialect string
}

func NewProjectStore(db *sql.DB, dialect string) *ProjectStore {
	return &ProjectStore{q: db, dialect: dialect}
}

func (s *ProjectStore) Create(ctx context.Context, name string, description *string, startDate *time.Time) (*domain.Project, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, rebind(s.dialect, `
		INSERT INTO travel_projects (name, description, start_date) VALUES (?, ?, ?) RETURNING id
	`), name, description, formatDate(startDate)).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the project without its places, or nil if it does not exist.
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := scanProject(s.q.QueryRowContext(ctx, rebind(s.dialect, `
		SELECT id, name, description, start_date, is_completed, created_at FROM travel_projects WHERE id = ?
	`), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, description, start_date, is_completed, created_at FROM travel_projects ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

func (s *ProjectStore) SetCompleted(ctx context.Context, id int64, completed bool) error {
	result, err := s.q.ExecContext(ctx, rebind(s.dialect, `
		UPDATE travel_projects SET is_completed = ? WHERE id = ?
	`), completed, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	project := &domain.Project{}
	var startDate sql.NullString
	if err := row.Scan(&project.ID, &project.Name, &project.Description, &startDate, &project.IsCompleted, &project.CreatedAt); err != nil {
		return nil, err
	}

	date, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	project.StartDate = date
	return project, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// parseDate accepts both sqlite TEXT dates and postgres DATE values, which
// arrive as RFC 3339 timestamps.
func parseDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	s := v.String
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", v.String, err)
	}
	return &t, nil
}
