package scene

import "github.com/milk9111/tilewalk/obj"

// DialogBox is one open dialog.
type DialogBox interface {
	// Width is the on-screen width used to shift the camera.
	Width() float64
	// Contains reports whether a stage-space point hits the box.
	Contains(x, y float64) bool
	Close()
}

// Dialogs opens dialog boxes for a speaker.
type Dialogs interface {
	Open(speaker *obj.Object, message string, view Viewport) DialogBox
}
