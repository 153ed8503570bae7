// Package common holds enumerations and failure kinds shared by all domx
// packages. Keeping them here lets config, figma and manager agree on values
// without importing each other.
package common

// Format of rendered node image requested from design API.
// ENUM(svg, png, jpg, pdf)
type ImageFormat int

// Ext returns file extension (with dot) for the format.
func (f ImageFormat) Ext() string {
	return "." + f.String()
}

// State of background asset download batch as recorded in status file.
// ENUM(pending, completed)
type DownloadStatus string

// Override layer kind, order of declaration is the order of merging.
// ENUM(downloaded-assets, ai, user)
type LayerKind string

// FileName returns name of the layer file inside page or variant directory.
func (k LayerKind) FileName() string {
	return string(k) + ".domx-nodes.json"
}

// Kind of failure reported by domx operations.
// ENUM(invalid-credential, resource-not-found, network-unavailable, no-compiled-page, no-template-found)
type ErrorKind int
