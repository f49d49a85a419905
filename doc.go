// Package mimedit is the core of a MIME message editor. It loads a message into
// a tree of parts, lets a front end show and change that tree one part at a
// time, and writes the message back out. Whatever the editor did not touch is
// written byte for byte as it was read.
//
// The work is split by concern:
//
// The message package holds the Document, its nodes, and every operation on
// them: parsing, serializing, inserting and removing parts, replacing content,
// editing headers, and resolving cid: references by Content-ID.
//
// The message/header package and its field and param packages read and write
// header blocks while keeping each field's original bytes, so unchanged fields
// are never refolded.
//
// The message/transfer package moves content into and out of the
// Content-Transfer-Encodings and character sets a message may declare.
//
// The message/walker, message/view, and message/cidref packages are the
// helpers a front end needs: walking the tree, a flattened tree view that can
// hide inline parts, and finding the cid: URIs in HTML parts.
//
// Finally, cmd/mimedit is a command line front end that edits message files
// with all of the above.
package mimedit
