// Package transfer converts leaf bodies between their stored wire form and
// their canonical bytes. The wire form is named by the Content-Transfer-Encoding
// header: base64 and quoted-printable transform the bytes while 7bit, 8bit,
// binary, and a missing header leave them as they are.
//
// In this package "decoded" means the bytes in the part's declared character
// set and "encoded" means the bytes in the transfer encoding. Converting
// between the declared character set and UTF-8 is a separate, optional step
// handled by the charset functions.
//
// Every encoder and decoder streams, so no body needs to be held in memory in
// full to be converted.
package transfer
