package sku

import "bottlecraft/internal/domain"

// Resolve returns the identifier for a vessel/fitment/closure assembly. An
// explicit SKU matrix record wins over the constructed code. It returns an
// empty string while the vessel or closure is still unselected.
func Resolve(family *domain.Family, vessel *domain.Vessel, fitment *domain.Fitment, closure *domain.Closure) string {
	if vessel == nil || closure == nil {
		return ""
	}
	if family != nil {
		if rec, ok := lookup(family.SKUMatrix, vessel, fitment, closure); ok {
			return rec.SKU
		}
	}
	return Construct(vessel, fitment, closure)
}

// Construct concatenates the vessel prefix, the fitment code and the closure
// image code (or SKU code when the closure has no image code).
func Construct(vessel *domain.Vessel, fitment *domain.Fitment, closure *domain.Closure) string {
	if vessel == nil || closure == nil {
		return ""
	}
	code := vessel.SKUPrefix
	if fitment != nil {
		code += fitment.SKUCode
	}
	if closure.ImageCode != "" {
		return code + closure.ImageCode
	}
	return code + closure.SKUCode
}

func lookup(matrix []domain.SKURecord, vessel *domain.Vessel, fitment *domain.Fitment, closure *domain.Closure) (domain.SKURecord, bool) {
	fitmentID := ""
	if fitment != nil {
		fitmentID = fitment.ID
	}
	for _, rec := range matrix {
		if rec.Vessel != vessel.ID || rec.Closure != closure.ID {
			continue
		}
		if rec.Fitment == "" || rec.Fitment == fitmentID {
			return rec, true
		}
	}
	return domain.SKURecord{}, false
}
