package asset

import "image"

// Texture is a decoded image that frames can be cut from. Both *ebiten.Image
// and *image.RGBA satisfy it.
type Texture interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

// Decoder turns an image-source identifier into a texture.
type Decoder interface {
	Decode(src string) (Texture, error)
}
