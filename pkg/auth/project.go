package auth

import (
	"errors"

	"talentpipe/pkg/models"
	"talentpipe/pkg/storage"
)

// ProjectSelector persists the project profiles are submitted to
type ProjectSelector struct {
	state *storage.Store
}

func NewProjectSelector(state *storage.Store) *ProjectSelector {
	return &ProjectSelector{state: state}
}

// SelectedProject returns the stored selection; the zero Project when unset
func (p *ProjectSelector) SelectedProject() (models.Project, error) {
	values, err := p.state.GetMany(storage.KeySelectedProject, storage.KeySelectedProjectName)
	if err != nil {
		return models.Project{}, err
	}
	return models.Project{
		ID:   models.FlexibleID(values[storage.KeySelectedProject]),
		Name: values[storage.KeySelectedProjectName],
	}, nil
}

func (p *ProjectSelector) SelectProject(project models.Project) error {
	if project.IsZero() {
		return errors.New("project id is required")
	}
	return p.state.SetMany(map[string]string{
		storage.KeySelectedProject:     string(project.ID),
		storage.KeySelectedProjectName: project.Name,
	})
}

func (p *ProjectSelector) ClearProject() error {
	return p.state.Delete(storage.KeySelectedProject, storage.KeySelectedProjectName)
}
