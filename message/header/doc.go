// Package header implements the header block of a MIME entity: an ordered list
// of fields that allows repeated names, together with the line break the block
// was written with.
//
// Fields read by Parse keep their original bytes, so an untouched header is
// written back exactly as it was read. Fields that are set or changed are
// rendered from their name and body and folded according to the header's
// FoldEncoding.
//
// Header adds typed accessors on top of Base for the fields a MIME tree cares
// about (Content-Type, Content-Transfer-Encoding, Content-Disposition,
// Content-ID) as well as a handful of message-level fields.
package header
