package production

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
)

// LedgerEntry is a stock ledger row held by MemoryRepository.
type LedgerEntry struct {
	LedgerMatch
	TotalPcs decimal.NullDecimal
}

// MemoryRepository is an in-memory Repository for unit tests.
type MemoryRepository struct {
	mu          sync.Mutex
	SalesOrders map[string][]SalesOrderItem
	WorkOrders  map[string]*WorkOrder
	Ledger      []LedgerEntry
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		SalesOrders: make(map[string][]SalesOrderItem),
		WorkOrders:  make(map[string]*WorkOrder),
	}
}

// SalesOrderItems implements Repository.
func (r *MemoryRepository) SalesOrderItems(ctx context.Context, salesOrder string) ([]SalesOrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, ok := r.SalesOrders[salesOrder]
	if !ok {
		return nil, apperror.NewNotFound("sales order", salesOrder)
	}
	return append([]SalesOrderItem(nil), items...), nil
}

// GetWorkOrder implements Repository.
func (r *MemoryRepository) GetWorkOrder(ctx context.Context, name string) (*WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wo, ok := r.WorkOrders[name]
	if !ok {
		return nil, apperror.NewNotFound("work order", name)
	}
	cp := *wo
	cp.RequiredItems = append([]WorkOrderItem(nil), wo.RequiredItems...)
	return &cp, nil
}

// SetLedgerTotalPcs implements Repository.
func (r *MemoryRepository) SetLedgerTotalPcs(ctx context.Context, match LedgerMatch, totalPcs decimal.Decimal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for i := range r.Ledger {
		if r.Ledger[i].LedgerMatch == match {
			r.Ledger[i].TotalPcs = decimal.NullDecimal{Decimal: totalPcs, Valid: true}
			n++
		}
	}
	return n, nil
}

var _ Repository = (*MemoryRepository)(nil)
