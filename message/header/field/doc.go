// Package field provides the low-level representation of a single header
// field. A field parsed from a document remembers its original bytes, so it can
// be written back out exactly as it was read. Once the name or body is changed,
// the field is rendered anew from its parts and folded as needed.
package field
