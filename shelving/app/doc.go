// Package app wires the catalog, shelf and bookcase modules into one application.
//
// Every command and query handler is wrapped with the observable wrappers, and the modules are
// connected through their access ports: the catalog serves the shelf module's BookAccessPort,
// the shelf module serves the bookcase module's ShelfAccessPort.
package app
