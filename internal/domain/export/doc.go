// Package export turns a project snapshot into a downloadable archive.
//
// Every file becomes one entry at <folder>/<file>. Text is written
// verbatim (or minified on request), media data URIs are decoded back to
// raw bytes, and a manifest.json describing the entries is added at the
// root. Supported formats are zip, tar.gz and tar.zst.
package export
