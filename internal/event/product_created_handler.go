package event

import (
	"context"
	"log/slog"
)

const TopicProductCreated = "catalog.product.created"

type ProductCreatedEvent struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Featured  bool    `json:"featured"`
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product added to catalog",
		slog.String("product_id", ev.ProductID),
		slog.String("category", ev.Category),
		slog.Bool("featured", ev.Featured),
	)
	return nil
}
