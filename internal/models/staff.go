package models

import "time"

// StaffStatus marks whether a staff member is currently employed.
type StaffStatus string

const (
	StaffActive   StaffStatus = "ACTIVE"
	StaffInactive StaffStatus = "INACTIVE"
)

// Staff is a dealership employee.
type Staff struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Team      string      `json:"team,omitempty"`
	Role      string      `json:"role,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Email     string      `json:"email,omitempty"`
	JoinDate  time.Time   `json:"joinDate"`
	LeaveDate *time.Time  `json:"leaveDate,omitempty"`
	Status    StaffStatus `json:"status"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// EntityID implements the identity used by the sync merge.
func (s Staff) EntityID() string { return s.ID }

// ModifiedAt reports when the row last changed.
func (s Staff) ModifiedAt() time.Time { return s.UpdatedAt }
