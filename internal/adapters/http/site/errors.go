package site

import "errors"

// Sentinel errors for the page layer.
var (
	ErrMissingAsset = errors.New("asset missing from bundle")
	ErrRender       = errors.New("render page")
	ErrBadForm      = errors.New("bad form")
)
