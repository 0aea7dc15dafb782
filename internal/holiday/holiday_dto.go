package holiday

import "time"

type CreateHolidayRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateHolidayRequest carries only the fields to change; nil pointers
// leave the stored value alone.
type UpdateHolidayRequest struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year"`
	IsActive    bool   `json:"is_active"`
	CreatedBy   string `json:"created_by,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type HolidayStatsResponse struct {
	Year     int               `json:"year"`
	Total    int64             `json:"total"`
	ByType   []TypeCount       `json:"by_type"`
	ByMonth  []MonthCount      `json:"by_month"`
	Upcoming []HolidayResponse `json:"upcoming"`
}

func mapToResponse(h Holiday) HolidayResponse {
	resp := HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Type:        h.Type,
		Description: h.Description,
		Year:        h.Year,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt.Format(time.RFC3339),
	}
	if h.CreatedBy != nil {
		resp.CreatedBy = h.CreatedBy.String()
	}
	if h.UpdatedBy != nil {
		resp.UpdatedBy = h.UpdatedBy.String()
	}
	return resp
}

func mapToListResponse(holidays []Holiday) []HolidayResponse {
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp
}
