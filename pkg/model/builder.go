package model

import internalmodel "github.com/goliatone/go-tlgen/internal/model"

// Builder resolves parsed declarations into the typed object model.
type Builder = internalmodel.Builder

// NewBuilder constructs the default Builder implementation.
func NewBuilder() *Builder {
	return internalmodel.New()
}
