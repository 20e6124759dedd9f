package dto

import "time"

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLayoutRequest body para POST /api/warehouses/:id/layout.
type CreateLayoutRequest struct {
	Rows      []string `json:"rows"`
	Bays      int      `json:"bays"`
	Positions int      `json:"positions"`
	Capacity  int      `json:"capacity"` // bultos por celda; 0 = sin límite
}

// CellResponse salida de una celda.
type CellResponse struct {
	ID           string `json:"id"`
	Reference    string `json:"reference"`
	Row          string `json:"row"`
	Bay          int    `json:"bay"`
	Position     int    `json:"position"`
	Capacity     int    `json:"capacity"`
	CurrentUsage int    `json:"current_usage"`
	Status       string `json:"status"`
	Role         string `json:"role"`
	IsPassage    bool   `json:"is_passage"`
	Selectable   bool   `json:"selectable"`
}

// RowMapResponse una fila del mapa del almacén.
type RowMapResponse struct {
	Row   string         `json:"row"`
	Class string         `json:"class"`
	Known bool           `json:"known"`
	Cells []CellResponse `json:"cells"`
}

// WarehouseMapResponse mapa de celdas en orden de recorrido.
type WarehouseMapResponse struct {
	WarehouseID string           `json:"warehouse_id"`
	Rows        []RowMapResponse `json:"rows"`
}

// LayoutResponse celdas creadas.
type LayoutResponse struct {
	WarehouseID string         `json:"warehouse_id"`
	Created     int            `json:"created"`
	Cells       []CellResponse `json:"cells"`
}

// DestinationLineResponse celda sugerida y bultos que recibiría.
type DestinationLineResponse struct {
	CellID   string `json:"cell_id"`
	CellRef  string `json:"cell_ref"`
	Packages int    `json:"packages"`
}

// DestinationSuggestionResponse propuesta de celdas destino.
type DestinationSuggestionResponse struct {
	Target    string                    `json:"target"`
	Row       string                    `json:"row"` // fila reservada para el destino
	Lines     []DestinationLineResponse `json:"lines"`
	Requested int                       `json:"requested"`
	Shortfall int                       `json:"shortfall"`
}
