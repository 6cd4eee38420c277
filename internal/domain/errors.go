package domain

import "errors"

var (
	// ErrAssetNotFound is returned when an asset id is not in the portfolio
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAssetExists is returned when adding an asset id that is already tracked
	ErrAssetExists = errors.New("asset already exists")
	// ErrInvalidQuantity is returned for negative or non-finite quantities
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidAsset is returned when an asset is missing its id, symbol or name
	ErrInvalidAsset = errors.New("invalid asset")
)
