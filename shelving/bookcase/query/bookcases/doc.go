// Package bookcases lists bookcases with their nominal capacity.
//
// A bookcase whose deletion has started is hidden unless the query asks for it; deleted bookcases
// are never listed.
package bookcases
