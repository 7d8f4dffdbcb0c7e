// Package preflight verifies, before any subject is touched, that the input
// tree is readable and the output and workspace roots are writable.
//
// A failed preflight aborts the whole run: no subject result would be
// meaningful if the output root cannot be written.
package preflight
