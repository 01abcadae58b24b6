/*
Package domain contains the core models of docu.

It is kept pure and free of I/O: the content collection and the counter widget
are built on top of these types by the collection, widget and adapter
packages.

# Key Entities

  - Document: the validated front-matter of one content file.
  - Entry: a Document inside a collection, with its ID, file path and body.
  - Optional: a Present(T) | Absent value for optional fields.
  - CounterState: the single integer owned by a counter widget instance.
*/
package domain
