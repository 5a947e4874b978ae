// Package books lists the books of the catalog together with the shelf each one sits on.
package books
