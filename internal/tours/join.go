package tours

import (
	"sort"

	"github.com/dkoval87/hottours/internal/domain"
)

// Join merges price offers with hotel records into display-ready cards,
// cheapest first. Offers without a hotel id, or whose hotel is missing
// from the table, are dropped: there is nothing to render them with.
// Equal amounts are ordered by offer id, so the output is deterministic
// regardless of map iteration order. Pure function, safe to recompute on
// every change of either input.
func Join(prices domain.PricesMap, hotels domain.HotelsMap) []domain.TourCard {
	cards := make([]domain.TourCard, 0, len(prices))

	for _, offer := range prices {
		if offer.HotelID == "" {
			continue
		}
		hotel, ok := hotels[offer.HotelID]
		if !ok {
			continue
		}
		cards = append(cards, domain.TourCard{
			PriceID:   offer.ID,
			Amount:    offer.Amount,
			Currency:  offer.Currency,
			StartDate: offer.StartDate,
			EndDate:   offer.EndDate,
			Hotel:     hotel,
		})
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Amount != cards[j].Amount {
			return cards[i].Amount < cards[j].Amount
		}
		return cards[i].PriceID < cards[j].PriceID
	})

	return cards
}
