package model

import "fmt"

// ProjectType is the platform a project targets.
type ProjectType string

const (
	ProjectTypeBackEnd  ProjectType = "back end"
	ProjectTypeFrontEnd ProjectType = "front end"
	ProjectTypeIOS      ProjectType = "iOS"
	ProjectTypeAndroid  ProjectType = "Android"
)

// DefaultProjectType is used when a project is created without a type.
const DefaultProjectType = ProjectTypeBackEnd

var validProjectTypes = []ProjectType{
	ProjectTypeBackEnd,
	ProjectTypeFrontEnd,
	ProjectTypeIOS,
	ProjectTypeAndroid,
}

// ValidateProjectType returns an error if t is not a recognized project type.
func ValidateProjectType(t ProjectType) error {
	for _, v := range validProjectTypes {
		if t == v {
			return nil
		}
	}
	return fmt.Errorf("invalid project type %q: must be one of %q", t, validProjectTypes)
}

// Project is the top-level container for contributors and issues.
type Project struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        ProjectType `json:"type"`
	AuthorID    int         `json:"author_user_id"`
}

// AuthoredBy reports the project's author.
func (p Project) AuthoredBy() (int, bool) {
	return p.AuthorID, true
}
