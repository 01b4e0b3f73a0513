// Package configs embeds the example configuration written by
// `streamlog config init`.
//
// To change the template, edit streamlog.example.yaml and rebuild.
package configs

import _ "embed"

// Template is the commented example configuration.
//
//go:embed streamlog.example.yaml
var Template string
