// assets/embed.go
//
// Embedded default catalog, used when CATALOG_FILE is not configured so the
// server can run out of the box.
package assets

import (
	"embed"
	"io"
)

//go:embed pokemon.json
var FS embed.FS

// Catalog opens the embedded default catalog (JSON array of entities).
func Catalog() (io.ReadCloser, error) {
	return FS.Open("pokemon.json")
}
