package web

import (
	"time"

	"github.com/vbonduro/travelplanner/internal/domain"
)

const dateLayout = "2006-01-02"

type placeInput struct {
	ExternalID *int64  `json:"external_id"`
	Note       *string `json:"note"`
}

type createProjectRequest struct {
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	StartDate   *string      `json:"start_date"`
	Places      []placeInput `json:"places"`
}

type updateProjectRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

type updatePlaceRequest struct {
	IsVisited *bool `json:"is_visited"`
}

type placeResponse struct {
	ID         int64   `json:"id"`
	ProjectID  int64   `json:"project_id"`
	ExternalID int64   `json:"external_id"`
	Note       *string `json:"note"`
	IsVisited  bool    `json:"is_visited"`
}

type projectResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	StartDate   *string         `json:"start_date"`
	IsCompleted bool            `json:"is_completed"`
	Places      []placeResponse `json:"places"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toPlaceResponse(p *domain.Place) placeResponse {
	return placeResponse{
		ID:         p.ID,
		ProjectID:  p.ProjectID,
		ExternalID: p.ExternalID,
		Note:       p.Note,
		IsVisited:  p.IsVisited,
	}
}

func toProjectResponse(p *domain.Project) projectResponse {
	resp := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsCompleted: p.IsCompleted,
		Places:      make([]placeResponse, 0, len(p.Places)),
	}
	if p.StartDate != nil {
		d := p.StartDate.Format(dateLayout)
		resp.StartDate = &d
	}
	for _, place := range p.Places {
		resp.Places = append(resp.Places, toPlaceResponse(place))
	}
	return resp
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
