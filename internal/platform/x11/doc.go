// Package x11 implements platform.Provider on top of the X11 window tree.
// On other systems the package is empty and registers nothing.
package x11
