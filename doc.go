/*
Package docu loads the "docu" content collection and serves its counter widget.

A Site discovers markdown documents under a content directory, validates their
front-matter against a declarative schema and exposes the valid entries,
ordered by their number field. Rejected documents never abort the site: they
are reported as issues next to the entries, unless fail-fast is requested.

# Usage

	site, err := docu.New("./my-site", docu.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	docs, _ := site.Collection("docu")
	for _, entry := range docs.Entries() {
		fmt.Println(entry.Data.Number, entry.Data.Title)
	}

	for _, issue := range docs.Issues() {
		fmt.Println("rejected:", issue)
	}

The counter widget lives in package widget and is independent of the
collection: every instance holds a count starting at 0 and renders the label
"Contador: <count>".
*/
package docu
