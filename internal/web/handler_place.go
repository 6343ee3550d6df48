package web

import "net/http"

func (s *Server) handleUpdatePlaceStatus(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid place id")
		return
	}

	var req updatePlaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.IsVisited == nil {
		writeError(w, http.StatusUnprocessableEntity, "is_visited is required")
		return
	}

	place, err := s.service.SetPlaceVisited(r.Context(), placeID, *req.IsVisited)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlaceResponse(place))
}
