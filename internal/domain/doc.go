// Package domain contains the core entities of the radar: topics, radars,
// blips and the user reference that owns radars. It holds the lifecycle and
// validation rules and is independent of storage and transport.
package domain
