package employee

import "time"

type EmployeeResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID.String(),
		FullName:   e.FullName,
		Email:      e.Email,
		Mobile:     e.Mobile,
		Department: e.Department,
		Role:       e.Role,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
