// README: Offer store backed by PostgreSQL.
package pricing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListOffers returns the active offers in display order.
func (s *Store) ListOffers(ctx context.Context) ([]Offer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, provider, category, vehicle_label, eco_score, shareable, surged
		FROM provider_offers
		WHERE active
		ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Provider, &o.Category, &o.VehicleLabel, &o.EcoScore, &o.Shareable, &o.Surged); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
