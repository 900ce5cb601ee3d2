package services

import (
	"sort"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// OpportunityDetector scans product groups for profitable buy/compare pairs.
type OpportunityDetector struct {
	logger    *utils.Logger
	minMargin float64
}

// NewOpportunityDetector creates a detector emitting opportunities whose
// profit margin exceeds minMargin percent.
func NewOpportunityDetector(logger *utils.Logger, minMargin float64) *OpportunityDetector {
	return &OpportunityDetector{logger: logger, minMargin: minMargin}
}

// Detect derives one opportunity per qualifying group: the cheapest priced
// member is the buy side, the most expensive the compare side. Groups with
// fewer than 2 priced members are skipped. Results are sorted by margin
// descending; equal margins keep the original group discovery order
// (stable sort).
func (d *OpportunityDetector) Detect(groups []models.ProductGroup) []models.Opportunity {
	var opportunities []models.Opportunity

	for _, group := range groups {
		var priced []*models.Listing
		for _, l := range group.Members {
			if l.Priced() {
				priced = append(priced, l)
			}
		}
		if len(priced) < 2 {
			continue
		}

		buy, compare := priced[0], priced[0]
		for _, l := range priced[1:] {
			if *l.PriceZAR < *buy.PriceZAR {
				buy = l
			}
			if *l.PriceZAR > *compare.PriceZAR {
				compare = l
			}
		}

		diff := *compare.PriceZAR - *buy.PriceZAR
		margin := diff / *buy.PriceZAR * 100
		if margin <= d.minMargin {
			continue
		}

		opportunities = append(opportunities, models.Opportunity{
			Buy:                 buy,
			Compare:             compare,
			PriceDifference:     diff,
			ProfitMarginPercent: margin,
			Group:               group.Members,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].ProfitMarginPercent > opportunities[j].ProfitMarginPercent
	})

	d.logger.Info("[opportunities] Found %d arbitrage opportunities in %d groups",
		len(opportunities), len(groups))
	return opportunities
}
