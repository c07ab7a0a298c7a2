package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
)

// ProjectDirectory resolves the project a BOQ belongs to.
type ProjectDirectory interface {
	ResolveProject(id string) (boq.ProjectRef, error)
}

// PBProjectDirectory looks projects up in the "projects" collection.
type PBProjectDirectory struct {
	App core.App
}

// ResolveProject returns the project's id and name, or boq.ErrNotFound.
func (d PBProjectDirectory) ResolveProject(id string) (boq.ProjectRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return boq.ProjectRef{}, fmt.Errorf("%w: project is required", boq.ErrValidation)
	}

	record, err := d.App.FindRecordById("projects", id)
	if errors.Is(err, sql.ErrNoRows) {
		return boq.ProjectRef{}, fmt.Errorf("%w: project %s", boq.ErrNotFound, id)
	}
	if err != nil {
		return boq.ProjectRef{}, fmt.Errorf("find project %s: %w", id, err)
	}
	return boq.ProjectRef{ID: record.Id, Name: record.GetString("name")}, nil
}

// StaticProjectDirectory resolves projects from a fixed id → name map.
type StaticProjectDirectory map[string]string

// ResolveProject returns the named project, or boq.ErrNotFound.
func (d StaticProjectDirectory) ResolveProject(id string) (boq.ProjectRef, error) {
	name, ok := d[id]
	if !ok {
		return boq.ProjectRef{}, fmt.Errorf("%w: project %s", boq.ErrNotFound, id)
	}
	return boq.ProjectRef{ID: id, Name: name}, nil
}
