package domain

import "time"

// MaxPlacesPerProject bounds how many places a single project may hold.
const MaxPlacesPerProject = 10

type Project struct {
	ID          int64
	Name        string
	Description *string
	StartDate   *time.Time
	IsCompleted bool
	Places      []*Place
	CreatedAt   time.Time
}

type Place struct {
	ID         int64
	ProjectID  int64
	ExternalID int64
	Note       *string
	IsVisited  bool
	CreatedAt  time.Time
}

// NewProject is the input for creating a project together with its initial places.
type NewProject struct {
	Name        string
	Description *string
	StartDate   *time.Time
	Places      []NewPlace
}

type NewPlace struct {
	ExternalID int64
	Note       *string
}
