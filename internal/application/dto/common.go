package dto

// ErrorResponse cuerpo de error HTTP.
// Cuando el error se refiere a una asignación concreta se informan también el campo y los
// valores solicitado/disponible.
type ErrorResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	AllocationID string `json:"allocation_id,omitempty"`
	Field        string `json:"field,omitempty"`
	Requested    string `json:"requested,omitempty"`
	Available    string `json:"available,omitempty"`
}
