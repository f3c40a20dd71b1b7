package directory

import "context"

// Student is the display metadata this core needs about a fee payer.
// The student record itself lives in an external system.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
}

// Organization is the display metadata this core needs about an issuing org
type Organization struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// StudentDirectory resolves student IDs to display metadata. Read-only from
// this core's perspective.
type StudentDirectory interface {
	GetStudent(ctx context.Context, id string) (*Student, error)
}

// OrgDirectory resolves organization IDs to display metadata. Read-only from
// this core's perspective.
type OrgDirectory interface {
	GetOrganization(ctx context.Context, id string) (*Organization, error)
}
