// Package preview assembles the live-preview document for a project.
//
// Compose merges the project's code files into one HTML document: the last
// HTML, CSS and JS file in folder-then-file order each represent their
// kind, CSS is injected before </head> and JS before </body>. A document
// without those markers is returned as is. Selected media files bypass
// composition and get a standalone viewer document instead.
//
// Composer caches rendered documents by content digest; InlineAssets
// rewrites local media references to data URIs; Diagnose reports
// JavaScript syntax errors without running anything.
package preview
