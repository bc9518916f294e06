package model

import "fmt"

// Permission is the informational role a contributor holds on a project.
// Authorization never branches on it.
type Permission string

const (
	PermissionOwner        Permission = "owner"
	PermissionCollaborator Permission = "collaborator"
)

var validPermissions = []Permission{
	PermissionOwner,
	PermissionCollaborator,
}

// ValidatePermission returns an error if p is not a recognized permission.
func ValidatePermission(p Permission) error {
	for _, v := range validPermissions {
		if p == v {
			return nil
		}
	}
	return fmt.Errorf("invalid permission %q: must be one of %q", p, validPermissions)
}

// Contributor links a user to a project.
type Contributor struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	ProjectID  int        `json:"project_id"`
	Permission Permission `json:"permission"`
}
