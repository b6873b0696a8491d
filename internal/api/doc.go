// Package api exposes the radar core over JSON HTTP. Handlers decode and
// validate requests, call the services, and translate their errors into
// status codes without leaking internal details.
package api
