package stock

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowStockAlertHandler watches stock-removal events and raises a log
// alert when the affected reagent drops to or below its low-stock
// threshold. Alerting is best-effort; it never fails the mutation that
// produced the event.
type LowStockAlertHandler struct {
	reagentRepo catalog.ReagentRepository
	logger      *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(reagentRepo catalog.ReagentRepository, logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{
		reagentRepo: reagentRepo,
		logger:      logger,
	}
}

// EventTypes returns the stock-removal event types this handler watches
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{
		stock.EventTypeStockWithdrawn,
		stock.EventTypeDispositionApplied,
		stock.EventTypeBatchReconciled,
	}
}

// Handle checks the reagent behind the event and logs when stock is low
func (h *LowStockAlertHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	reagentID, ok := reagentIDFromEvent(evt)
	if !ok {
		return nil
	}

	reagent, err := h.reagentRepo.FindByID(ctx, reagentID)
	if err != nil {
		return err
	}

	if !reagent.IsLowStock() {
		return nil
	}

	h.logger.Warn("reagent stock below threshold",
		zap.String("reagent_id", reagent.ID.String()),
		zap.String("reagent_name", reagent.Name),
		zap.String("stock_status", string(reagent.CurrentStockStatus)),
		zap.String("total_quantity", reagent.TotalQuantityAllBatches.String()),
		zap.String("min_quantity", reagent.MinQuantity.String()),
		zap.String("trigger_event", evt.EventType()),
	)
	return nil
}

func reagentIDFromEvent(evt shared.DomainEvent) (uuid.UUID, bool) {
	switch e := evt.(type) {
	case *stock.StockWithdrawnEvent:
		return e.ReagentID, true
	case *stock.DispositionAppliedEvent:
		return e.ReagentID, true
	case *stock.BatchReconciledEvent:
		return e.ReagentID, true
	default:
		return uuid.Nil, false
	}
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
