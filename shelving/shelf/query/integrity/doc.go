// Package integrity finds dangling placements: books whose current shelf was removed or never existed.
//
// With the cascade working as intended there are none. They only appear when a cascade was
// interrupted between its steps, and the reconciler repairs them.
package integrity
