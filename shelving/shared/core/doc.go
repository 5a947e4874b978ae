// Package core contains the domain events, identifiers and error kinds of the shelving domain:
// books from a catalog placed on the shelves of bookcases.
//
// Events are facts. Nothing in here talks to storage; the shell maps events to and from
// storable events and the feature slices decide on them with pure functions.
package core
