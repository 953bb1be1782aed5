// Package filetype classifies workspace files and validates uploads.
//
// Kind is a closed enum: every kind-specific decision (editor visibility,
// icon, extension, preview strategy) switches over it, so adding a kind is
// a compile-visible change. The package holds no state.
//
// Classification prefers the filename extension and falls back to the
// declared media type only when the extension says nothing. Validation
// enforces the upload size ceiling and the supported type set.
package filetype
