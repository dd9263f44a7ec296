// AngelaMos | 2026
// shifts.go

package api

import (
	"context"
	"net/http"
)

type shiftResponse struct {
	Shift Shift `json:"shift"`
}

func (c *Client) CreateShift(
	ctx context.Context,
	token string,
	input ShiftInput,
) (*Shift, error) {
	var resp shiftResponse
	if err := c.do(ctx, http.MethodPost, "/shifts", token, input, &resp); err != nil {
		return nil, err
	}
	return &resp.Shift, nil
}

func (c *Client) DeleteShift(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/shifts/"+id, token, nil, nil)
}

// ClearShifts bulk-deletes every shift of a schedule.
func (c *Client) ClearShifts(ctx context.Context, token, scheduleID string) error {
	return c.do(ctx, http.MethodDelete, "/shifts/schedule/"+scheduleID+"/all", token, nil, nil)
}
