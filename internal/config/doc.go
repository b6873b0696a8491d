// Package config loads the radar service settings.
//
// Values come from built-in defaults, an optional YAML file, and RADAR_
// prefixed environment variables, in increasing order of precedence. The
// result is validated once with struct tags; callers receive either a
// complete Config or an error naming every invalid field.
package config
