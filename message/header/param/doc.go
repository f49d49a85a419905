// Package param handles parameterized header bodies such as those found in the
// Content-type and Content-disposition headers, along with some helpers for
// picking apart MIME types.
package param
