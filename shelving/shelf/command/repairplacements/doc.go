// Package repairplacements takes dangling placements off their missing shelves.
package repairplacements
