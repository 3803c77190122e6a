package domain

// BoardColumn is a single ordered column on a kanban board.
type BoardColumn struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Board is a kanban board within a project.
type Board struct {
	Entity
	ProjectID string        `json:"projectId"`
	Name      string        `json:"name"`
	Columns   []BoardColumn `json:"columns"`
}

// NewBoard constructs a board with the default three-column layout.
func NewBoard(projectID, name string) *Board {
	return &Board{
		Entity:    NewEntity(),
		ProjectID: projectID,
		Name:      name,
		Columns: []BoardColumn{
			{Name: "To Do", Order: 0},
			{Name: "In Progress", Order: 1},
			{Name: "Done", Order: 2},
		},
	}
}
