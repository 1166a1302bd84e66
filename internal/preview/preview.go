// Package preview picks the image shown for an assembled vessel, fitment and
// closure.
package preview

import (
	"strings"

	"bottlecraft/internal/domain"
)

const compositeExt = ".gif"

// Image is the resolved preview plus the plain vessel shot the storefront
// swaps in when URL fails to load.
type Image struct {
	URL      string `json:"url"`
	Fallback string `json:"fallback,omitempty"`
	// Composite is true when URL points at an exact assembled render.
	Composite bool `json:"composite"`
}

// Resolver builds composite URLs under a base URL. A family's own
// CompositeBaseURL takes precedence over the resolver default.
type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: baseURL}
}

// Resolve never fails; an empty URL is a valid answer while the selection is
// incomplete.
func (r *Resolver) Resolve(family *domain.Family, vessel *domain.Vessel, fitment *domain.Fitment, closure *domain.Closure) Image {
	if vessel == nil {
		return Image{}
	}
	img := Image{Fallback: vessel.ImageURL}

	if family != nil && family.Preview.AssembledVessel {
		img.URL = substitute(vessel.ImageURL, family.Preview.Substitutions, closure)
		img.Composite = true
		return img
	}

	if closure != nil && closure.HasCompositeImage && closure.ImageCode != "" {
		code := vessel.SKUPrefix
		if fitment != nil {
			code += fitment.SKUCode
		}
		img.URL = r.base(family) + code + closure.ImageCode + compositeExt
		img.Composite = true
		return img
	}

	if fitment != nil {
		if u := vessel.FitmentImages[strings.ToLower(fitment.Category)]; u != "" {
			img.URL = u
			return img
		}
	}

	img.URL = vessel.ImageURL
	return img
}

func (r *Resolver) base(family *domain.Family) string {
	if family != nil && family.CompositeBaseURL != "" {
		return family.CompositeBaseURL
	}
	return r.baseURL
}

func substitute(image string, subs []domain.ImageSubstitution, closure *domain.Closure) string {
	if closure == nil {
		return image
	}
	for _, s := range subs {
		if s.Closure == closure.ID && s.From != "" {
			return strings.Replace(image, s.From, s.To, 1)
		}
	}
	return image
}
