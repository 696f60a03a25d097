package expiry

// ClassifiedBatch pairs a batch classification with the reagent
// category it belongs to, for aggregation.
type ClassifiedBatch struct {
	Classification Classification
	Category       string
}

// Summary holds dashboard counts derived from classified batches
type Summary struct {
	ByUrgencyTier map[Priority]int `json:"by_urgency_tier"`
	ByCategory    map[string]int   `json:"by_category"`
	TotalHandled  int              `json:"total_handled"`
	TotalPending  int              `json:"total_pending"`
}

// Summarize aggregates classified batches into tier and category
// counts. Pure aggregation, no mutation of the inputs.
//
// Handled batches count toward TotalHandled and are excluded from the
// category breakdown; TotalPending counts batches whose classification
// calls for action within the 14-day window.
func Summarize(batches []ClassifiedBatch) Summary {
	s := Summary{
		ByUrgencyTier: make(map[Priority]int),
		ByCategory:    make(map[string]int),
	}

	for _, b := range batches {
		c := b.Classification
		s.ByUrgencyTier[c.Priority]++

		if c.Status == StatusHandled {
			s.TotalHandled++
			continue
		}
		if c.NeedsAction {
			s.TotalPending++
		}

		category := b.Category
		if category == "" {
			category = "uncategorized"
		}
		s.ByCategory[category]++
	}

	return s
}
