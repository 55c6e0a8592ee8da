package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryScented  = "scented"
	CategoryPillar   = "pillar"
	CategoryJar      = "jar"
	CategoryFloating = "floating"
	CategoryGiftSet  = "gift-set"
)

// Categories form a closed set; products outside it are rejected at the API
// boundary.
var Categories = []string{
	CategoryScented,
	CategoryPillar,
	CategoryJar,
	CategoryFloating,
	CategoryGiftSet,
}

// IsValidCategory reports whether c belongs to the closed category set.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Review is embedded in its product, not separately addressable.
type Review struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Rating    int                `json:"rating" bson:"rating"` // 1..5
	Comment   string             `json:"comment" bson:"comment"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Image       string             `json:"image" bson:"image"`
	Stock       int                `json:"stock" bson:"stock"`
	Description string             `json:"description" bson:"description"`
	Rating      float64            `json:"rating" bson:"rating"` // 0..5, mean of review ratings
	Reviews     []Review           `json:"reviews" bson:"reviews"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RecomputeRating refreshes the aggregate rating from the embedded reviews.
func (p *Product) RecomputeRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0
		return
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(len(p.Reviews))
}
