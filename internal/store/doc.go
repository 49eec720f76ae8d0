// Package store defines interfaces for data persistence operations over
// members, circles, stories, timelines, and events. These interfaces
// abstract the underlying storage mechanism from the application's core
// logic; visibility-scoped queries are part of the store contracts so
// the scope can never be bypassed by callers.
package store
