package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Cells       CellRepository
	Allocations AllocationRepository
	Lots        LotRepository
	Movements   MovementRepository
	Audits      QualityAuditRepository
}
