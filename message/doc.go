// Package message holds a MIME message as an editable tree.
//
// Parse reads a message into a Document. Each entity becomes a Node: a
// multipart/* entity becomes a container whose children are its parts, and
// anything else becomes a leaf holding its body exactly as it was transfer
// encoded. Nodes are addressed by NodeID handles, so a caller never holds a
// pointer into the tree while it changes.
//
//	doc, err := message.Parse(in)
//	if err != nil {
//		return err
//	}
//	defer doc.Close()
//
//	html, err := doc.Lookup("2")
//	if err != nil {
//		return err
//	}
//
//	if err := doc.ReplaceContent(html, []byte("<p>Hello</p>")); err != nil {
//		return err
//	}
//
//	_, err = doc.WriteTo(out)
//
// Edits go through the Document: Insert, Remove, ReplaceContent, EditHeader,
// and friends keep the tree and the Content-ID index consistent, and tell any
// registered Observer what changed. A node never changes kind and a container
// never changes boundary; EditHeader rejects headers that would do either.
//
// WriteTo writes leaf bodies as they are stored. Content is encoded when it is
// replaced, not when it is written, so a message that is parsed and written
// without changes comes out as it went in.
package message
