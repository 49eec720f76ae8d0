// Package domain contains the core business entities and domain logic of
// the family stories application: members, circles, stories, timelines,
// and events, together with the invariants that bind them. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
