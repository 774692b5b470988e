package configs

import "embed"

// FS holds the built-in game configs under games/.
//
//go:embed games
var FS embed.FS
