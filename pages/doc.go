// Package pages provides PDF page tree traversal and page access.
//
// Besides the usual page attributes, each [Page] remembers which indirect
// objects it is made of: the reference the page dictionary itself was
// reached through, the references of its content streams, and the
// references of its annotations. Mapping an object number back to a page
// needs exactly these.
//
// # Page Tree
//
// PDF documents organize pages in a tree. The [PageTree] type flattens it
// into document order:
//
//	tree := pages.NewPageTree(catalog.Get("Pages"), resolver)
//	list, err := tree.Pages()
//	for _, page := range list {
//	    fmt.Println(page.Number, page.Ref, page.ContentRefs())
//	}
//
// Traversal uses an explicit worklist with a visited set, so arbitrarily
// deep or cyclic trees neither overflow the stack nor loop.
//
// # Inheritance
//
// /Resources, /MediaBox, /CropBox and /Rotate are inheritable. Each page
// sees the nearest value on its path from the root.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup:
//
//	type ObjectResolver interface {
//	    Resolve(obj core.Object) (core.Object, error)
//	    ResolveReference(ref core.IndirectRef) (core.Object, error)
//	}
//
// This allows the page tree to resolve indirect references without
// depending on the full reader implementation.
package pages
