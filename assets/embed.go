package assets

import (
	"embed"

	"github.com/milk9111/tilewalk/asset"
)

//go:embed *.png
var FS embed.FS

// NewCache returns a texture cache over the embedded sheets. Files under
// ./assets on disk are used when a sheet is missing from the embed.
func NewCache(wrap asset.WrapFunc) *asset.Cache {
	return asset.NewCache(asset.NewFSDecoder(FS, wrap))
}
