// Package activity defines the activity model served by the signup backend.
//
// An Activity is a signup-able event with a schedule and a capacity. The
// backend returns the whole set of activities on every fetch as a JSON object
// keyed by activity name; DecodeCollection turns that object into a
// Collection that keeps the document's key order, since that order is the
// order activities are shown in.
//
// Nothing in this package is cached. A Collection is created for a single
// render pass and discarded once the next fetch replaces it.
//
// # Derived values
//
//   - SpotsLeft is MaxParticipants minus the number of participants. It is
//     never clamped, so an over-subscribed activity reports a negative value.
//   - Initials abbreviates a participant email to at most two characters for
//     use as an avatar placeholder.
package activity
