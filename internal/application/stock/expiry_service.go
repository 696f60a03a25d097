package stock

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/expiry"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpiryService builds the expiry dashboard: every tracked batch
// classified by time to expiry, plus the aggregated summary.
type ExpiryService struct {
	batchRepo   stock.ReagentBatchRepository
	reagentRepo catalog.ReagentRepository
	clock       Clock
	logger      *zap.Logger
}

// NewExpiryService creates a new ExpiryService
func NewExpiryService(
	batchRepo stock.ReagentBatchRepository,
	reagentRepo catalog.ReagentRepository,
	clock Clock,
	logger *zap.Logger,
) *ExpiryService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryService{
		batchRepo:   batchRepo,
		reagentRepo: reagentRepo,
		clock:       clock,
		logger:      logger,
	}
}

// DefaultDashboardHorizonDays is the horizon used when none is requested
const DefaultDashboardHorizonDays = 30

// Dashboard classifies the batches expiring within the horizon,
// already-expired ones included, and returns them with summary counts.
func (s *ExpiryService) Dashboard(ctx context.Context, horizonDays int, filter shared.Filter) (*ExpiryDashboardResponse, error) {
	today := s.clock()
	if horizonDays <= 0 {
		horizonDays = DefaultDashboardHorizonDays
	}

	batches, err := s.batchRepo.FindExpiringWithin(ctx, today, horizonDays, filter)
	if err != nil {
		return nil, err
	}

	reagents := make(map[uuid.UUID]*catalog.Reagent)
	classified := make([]expiry.ClassifiedBatch, 0, len(batches))
	items := make([]ClassifiedBatchResponse, 0, len(batches))

	for i := range batches {
		b := &batches[i]
		reagent, ok := reagents[b.ReagentID]
		if !ok {
			reagent, err = s.reagentRepo.FindByID(ctx, b.ReagentID)
			if err != nil {
				s.logger.Warn("reagent lookup failed during classification",
					zap.String("reagent_id", b.ReagentID.String()),
					zap.Error(err))
				reagent = nil
			}
			reagents[b.ReagentID] = reagent
		}

		name, category := "", ""
		if reagent != nil {
			name, category = reagent.Name, reagent.Category
		}

		c := expiry.Classify(b.ExpiryDate, b.CurrentQuantity, today)
		classified = append(classified, expiry.ClassifiedBatch{Classification: c, Category: category})

		item := ClassifiedBatchResponse{
			Batch:          ToBatchResponse(b),
			ReagentName:    name,
			Category:       category,
			Status:         c.Status.String(),
			Priority:       c.Priority.String(),
			IsUrgent:       c.IsUrgent,
			IsWarning:      c.IsWarning,
			NeedsAction:    c.NeedsAction,
			HasKnownExpiry: c.DaysLeft != nil,
		}
		if c.DaysLeft != nil {
			item.DaysUntil = *c.DaysLeft
		}
		items = append(items, item)
	}

	return &ExpiryDashboardResponse{
		ReferenceDate: today.Format("2006-01-02"),
		Batches:       items,
		Summary:       expiry.Summarize(classified),
	}, nil
}

// MarkExpiredBatches flags non-terminal batches whose expiry date has
// passed. Intended to run on a schedule; returns how many batches were
// flagged.
func (s *ExpiryService) MarkExpiredBatches(ctx context.Context) (int, error) {
	today := s.clock()
	batches, err := s.batchRepo.FindExpired(ctx, today, shared.Filter{PageSize: 1000})
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range batches {
		b := &batches[i]
		if b.Status == stock.BatchStatusExpired {
			continue
		}
		if err := b.MarkExpired(); err != nil {
			continue
		}
		if err := s.batchRepo.SaveWithLock(ctx, b); err != nil {
			s.logger.Warn("failed to flag expired batch",
				zap.String("batch_id", b.ID.String()),
				zap.Error(err))
			continue
		}
		flagged++
	}

	if flagged > 0 {
		s.logger.Info("expired batches flagged", zap.Int("count", flagged))
	}
	return flagged, nil
}
