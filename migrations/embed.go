// Package migrations holds the goose SQL migrations for the key-value schema.
package migrations

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed *.sql
var embedded embed.FS

// Source returns the migrations under dir, or the set compiled into the
// binary when dir is empty.
func Source(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return os.DirFS(dir)
}
