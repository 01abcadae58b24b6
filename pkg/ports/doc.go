/*
Package ports defines the driven ports (interfaces) of docu.

These interfaces decouple the collection builder and the counter widget from
concrete storage and discovery mechanisms.

# Key Interfaces

  - DocumentSource: discovers and opens the source files of a collection.
  - Watchable: notifies about changes in a source so collections can be rebuilt.
  - CounterStore: holds the state of mounted counter widget instances.
*/
package ports
