// Package importer builds a workspace project from a directory on disk.
//
// Files directly in the root land in a "Main" folder; each subdirectory
// becomes one folder named by its slash-separated relative path. Hidden
// entries are skipped, as is anything the upload validator would reject.
package importer
