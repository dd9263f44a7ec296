// AngelaMos | 2026
// types.go

package api

import (
	"time"
)

// Remote resources mirrored as transient view state only. The
// scheduling API owns every record; nothing here is cached between
// page visits.

type Employee struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Phone         string    `json:"phone"`
	Active        bool      `json:"active"`
	WorkStartTime string    `json:"workStartTime"`
	WorkEndTime   string    `json:"workEndTime"`
	WorkDays      []int     `json:"workDays"`
	CompanyID     string    `json:"companyId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type EmployeeInput struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Phone         string `json:"phone"`
	WorkStartTime string `json:"workStartTime"`
	WorkEndTime   string `json:"workEndTime"`
	WorkDays      []int  `json:"workDays"`
}

type Schedule struct {
	ID        string `json:"id"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
}

type Shift struct {
	ID         string    `json:"id"`
	DayOfWeek  int       `json:"dayOfWeek"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	ScheduleID string    `json:"scheduleId"`
	EmployeeID string    `json:"employeeId"`
	Employee   *Employee `json:"employee,omitempty"`
}

type ShiftInput struct {
	ScheduleID string `json:"scheduleId"`
	EmployeeID string `json:"employeeId"`
	DayOfWeek  int    `json:"dayOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// WeekSchedule is the GET /schedules/:weekStartDate payload.
type WeekSchedule struct {
	Schedule Schedule `json:"schedule"`
	Shifts   []Shift  `json:"shifts"`
}

const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionFailed    = "FAILED"
)

type Subscription struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Subscription) IsPro() bool {
	return s.Plan == PlanPro && s.Status == SubscriptionActive
}

type RegisterCompanyInput struct {
	CompanyName   string `json:"companyName"`
	Segment       string `json:"segment"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}
