// Package task runs background work outside the request path.
//
// Tasks are persisted before they are queued so that pending and interrupted
// work survives a restart; on startup the runner reloads those rows and binds
// them back to executable tasks through per-type rehydrators. Radar
// provisioning for newly created users is the task this service runs.
package task
