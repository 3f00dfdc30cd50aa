// Package generation defines the capability boundary between the
// application core and external text-generation services.
package generation
