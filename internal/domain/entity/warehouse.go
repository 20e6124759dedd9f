package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/wms-core/internal/domain"
)

// Warehouse almacén cuyo espacio se divide en celdas (ver domain/warehouse).
// CompanyID es opcional: el motor no lo usa, solo lo conserva para el sistema que lo rodea.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWarehouse normaliza nombre y dirección. Un nombre vacío es ErrInvalidInput.
func NewWarehouse(id, companyID, name, address string, now time.Time) (*Warehouse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: el almacén requiere nombre", domain.ErrInvalidInput)
	}
	return &Warehouse{
		ID:        id,
		CompanyID: strings.TrimSpace(companyID),
		Name:      name,
		Address:   strings.TrimSpace(address),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
