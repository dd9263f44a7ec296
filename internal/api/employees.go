// AngelaMos | 2026
// employees.go

package api

import (
	"context"
	"net/http"
)

type employeesResponse struct {
	Employees []Employee `json:"employees"`
}

func (c *Client) ListEmployees(ctx context.Context, token string) ([]Employee, error) {
	var resp employeesResponse
	if err := c.do(ctx, http.MethodGet, "/employees", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Employees, nil
}

func (c *Client) CreateEmployee(
	ctx context.Context,
	token string,
	input EmployeeInput,
) error {
	return c.do(ctx, http.MethodPost, "/employees", token, input, nil)
}

func (c *Client) UpdateEmployee(
	ctx context.Context,
	token, id string,
	input EmployeeInput,
) error {
	return c.do(ctx, http.MethodPut, "/employees/"+id, token, input, nil)
}

// DeactivateEmployee soft-disables the record; there is no delete in
// this UI.
func (c *Client) DeactivateEmployee(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPatch, "/employees/"+id+"/deactivate", token, nil, nil)
}
