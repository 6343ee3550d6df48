package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vbonduro/travelplanner/internal/domain"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	in, err := req.toNewProject()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	project, err := s.service.CreateProject(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.ListProjects(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid project id")
		return
	}

	project, err := s.service.GetProject(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleAddPlace(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid project id")
		return
	}

	var req placeInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.ExternalID == nil {
		writeError(w, http.StatusUnprocessableEntity, "external_id is required")
		return
	}

	project, err := s.service.AddPlace(r.Context(), projectID, domain.NewPlace{ExternalID: *req.ExternalID, Note: req.Note})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid project id")
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.IsCompleted == nil {
		writeError(w, http.StatusUnprocessableEntity, "is_completed is required")
		return
	}

	project, err := s.service.SetProjectCompleted(r.Context(), projectID, *req.IsCompleted)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (req createProjectRequest) toNewProject() (domain.NewProject, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewProject{}, fmt.Errorf("project name required")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return domain.NewProject{}, fmt.Errorf("start_date must be YYYY-MM-DD")
	}

	places := make([]domain.NewPlace, 0, len(req.Places))
	for i, p := range req.Places {
		if p.ExternalID == nil {
			return domain.NewProject{}, fmt.Errorf("places[%d].external_id is required", i)
		}
		places = append(places, domain.NewPlace{ExternalID: *p.ExternalID, Note: p.Note})
	}

	return domain.NewProject{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		Places:      places,
	}, nil
}
