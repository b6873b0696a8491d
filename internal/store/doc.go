// Package store defines the persistence contracts of the radar core:
// interfaces for users, topics, radars and blips, the store-level sentinel
// errors, and the transaction helper that services use to make multi-step
// operations atomic. Implementations live under internal/platform.
package store
