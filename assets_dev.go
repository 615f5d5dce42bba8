//go:build !release

package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func init() {
	log.Debug().Msg("debug build, serving templates and static files from disk")
	templatesFS = os.DirFS("templates")
	staticFS = os.DirFS("static")
}
