package catalog

import (
	"fmt"

	"bottlecraft/internal/configurator"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/preview"
	"bottlecraft/internal/pricing"
)

type Service struct {
	reader   catalogReader
	previews *preview.Resolver
}

type catalogReader interface {
	Families() []*domain.Family
	Family(key string) (*domain.Family, error)
	Products() []domain.Product
	Product(keyOrSKU string) (*domain.Product, error)
}

func New(reader catalogReader, previews *preview.Resolver) *Service {
	return &Service{reader: reader, previews: previews}
}

// FamilySummary is the listing view of a family.
type FamilySummary struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description,omitempty"`
	HasFitmentStep bool   `json:"hasFitmentStep"`
}

// Quote is the configurator panel for one selection: the priced line plus
// the tier table for the chosen vessel and fitment.
type Quote struct {
	Line  configurator.LineItem `json:"line"`
	Tiers []pricing.TierRow     `json:"tiers"`
}

func (s *Service) List() []FamilySummary {
	fams := s.reader.Families()
	out := make([]FamilySummary, 0, len(fams))
	for _, f := range fams {
		out = append(out, FamilySummary{
			Key:            f.Key,
			Name:           f.Name,
			Category:       f.Category,
			Description:    f.Description,
			HasFitmentStep: f.HasFitmentStep(),
		})
	}
	return out
}

func (s *Service) Get(key string) (*domain.Family, error) {
	return s.reader.Family(key)
}

// Quote prices a possibly partial selection without touching any cart.
func (s *Service) Quote(key string, choices configurator.Choices) (Quote, error) {
	fam, err := s.reader.Family(key)
	if err != nil {
		return Quote{}, fmt.Errorf("family %q: %w", key, err)
	}
	session := configurator.New(fam, s.previews)
	if err := session.Apply(choices); err != nil {
		return Quote{}, err
	}
	sel := session.Selection()
	return Quote{
		Line:  session.Quote(),
		Tiers: pricing.Tiers(fam.Pricing, sel.Vessel, sel.Fitment),
	}, nil
}

func (s *Service) Products() []domain.Product {
	return s.reader.Products()
}

func (s *Service) Product(keyOrSKU string) (*domain.Product, error) {
	return s.reader.Product(keyOrSKU)
}
