// Package collection builds validated content collections.
//
// A Definition names a collection, the DocumentSource that discovers its
// files and the schema every document's front-matter must satisfy. Build
// reads, validates and decodes the documents, in parallel and independently
// of each other, and returns a Collection keyed by entry ID. Documents that
// fail are reported as Issues; whether an issue aborts the build is chosen by
// the caller through WithFailFast.
//
// The docu collection used by the site is defined by Docu:
//
//	def := collection.Docu("./src/content")
//	c, err := collection.Build(ctx, def)
//	if err != nil {
//	    return err
//	}
//	for _, issue := range c.Issues() {
//	    log.Println(issue)
//	}
package collection
