// AngelaMos | 2026
// schedules.go

package api

import (
	"context"
	"net/http"
)

// GetWeek returns the schedule and shifts for a Monday-normalized
// week start (YYYY-MM-DD). ErrNotFound means no schedule exists yet.
func (c *Client) GetWeek(
	ctx context.Context,
	token, weekStart string,
) (*WeekSchedule, error) {
	var resp WeekSchedule
	if err := c.do(ctx, http.MethodGet, "/schedules/"+weekStart, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type createScheduleRequest struct {
	WeekStart string `json:"weekStart"`
	CompanyID string `json:"companyId"`
}

type createScheduleResponse struct {
	Schedule Schedule `json:"schedule"`
}

func (c *Client) CreateSchedule(
	ctx context.Context,
	token, weekStart, companyID string,
) (*Schedule, error) {
	req := createScheduleRequest{WeekStart: weekStart, CompanyID: companyID}

	var resp createScheduleResponse
	if err := c.do(ctx, http.MethodPost, "/schedules", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Schedule, nil
}

type autoGenerateRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}

// AutoGenerate asks the server-side assignment algorithm to populate
// the schedule from the given employees' availability. The contract
// is opaque; callers refetch the week afterwards.
func (c *Client) AutoGenerate(
	ctx context.Context,
	token, scheduleID string,
	employeeIDs []string,
) error {
	req := autoGenerateRequest{EmployeeIDs: employeeIDs}
	return c.do(ctx, http.MethodPost, "/schedules/"+scheduleID+"/auto-generate", token, req, nil)
}
