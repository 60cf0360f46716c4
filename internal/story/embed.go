package story

import (
	"embed"
	"io/fs"
)

// storiesFS embeds the sample stories shipped with the binary.
//
//go:embed stories
var storiesFS embed.FS

// Embedded returns the filesystem holding the sample stories.
func Embedded() fs.FS {
	sub, err := fs.Sub(storiesFS, "stories")
	if err != nil {
		panic(err)
	}
	return sub
}
