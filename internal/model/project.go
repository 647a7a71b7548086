package model

import "time"

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ClientName  string    `json:"client_name"`
	Status      string    `json:"status"` // active / completed / on-hold
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Task struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"` // todo / in-progress / done
	AssignedTo string    `json:"assigned_to"`
	DueDate    time.Time `json:"due_date"`
	CreatedAt  time.Time `json:"created_at"`
}

type Risk struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"` // low / medium / high
	Status      string    `json:"status"`   // open / mitigated
	CreatedAt   time.Time `json:"created_at"`
}

type TeamMember struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
}

// ProjectSnapshot is the composed dashboard read: the project row plus its
// related milestones, tasks, risks and team in one load.
type ProjectSnapshot struct {
	Project    Project      `json:"project"`
	Milestones []Milestone  `json:"milestones"`
	Tasks      []Task       `json:"tasks"`
	Risks      []Risk       `json:"risks"`
	Team       []TeamMember `json:"team"`
}
