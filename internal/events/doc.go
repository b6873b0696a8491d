// Package events carries task requests from services to background workers.
//
// A service that needs work done asynchronously emits a TaskRequestEvent
// through an EventEmitter; handlers registered with the emitter turn the event
// into a concrete task. Neither side imports the other.
package events
