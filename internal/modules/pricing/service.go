// README: Pricing service runs the quote pipeline (offers -> price -> rank) for the controller.
package pricing

import (
	"context"

	"go.uber.org/zap"
)

type OfferSource interface {
	ListOffers(ctx context.Context) ([]Offer, error)
}

type Service struct {
	offers OfferSource
	log    *zap.Logger
}

// NewService accepts a nil source; DefaultOffers is used then.
func NewService(offers OfferSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{offers: offers, log: log}
}

// Offers loads the current offer set, falling back to DefaultOffers.
func (s *Service) Offers(ctx context.Context) []Offer {
	if s.offers == nil {
		return DefaultOffers
	}
	offers, err := s.offers.ListOffers(ctx)
	if err != nil {
		s.log.Warn("list offers failed, using built-in catalog", zap.Error(err))
		return DefaultOffers
	}
	if len(offers) == 0 {
		return DefaultOffers
	}
	return offers
}

// Quotes prices and ranks the current offers for req.
func (s *Service) Quotes(ctx context.Context, req TripRequest) []Quote {
	quotes := BuildQuotes(req, s.Offers(ctx))
	s.log.Debug("quotes built",
		zap.Int("count", len(quotes)),
		zap.String("sort", string(req.SortBy)),
		zap.String("filter", string(req.Filter)),
	)
	return quotes
}

// BuildQuotes is the whole pricing pipeline as one pure function: filter the
// offers by category, price each one, then badge and sort the set.
func BuildQuotes(req TripRequest, offers []Offer) []Quote {
	quotes := make([]Quote, 0, len(offers))
	for _, o := range offers {
		if req.Filter != "" && req.Filter != FilterAll && o.Category != req.Filter {
			continue
		}
		quotes = append(quotes, Price(req, o))
	}
	preferred := req.PreferredProvider
	if preferred == "" {
		preferred = ProviderTeleport
	}
	return Rank(quotes, preferred, req.SortBy)
}
