// Package nt2 turns string-only documents, such as those read from
// [NestedText], into typed documents for JSON, YAML and TOML, and back.
//
// A [Schema] lists path queries for each of four categories. [Cast] resolves
// each query against the document and reinterprets the string leaves it
// matches:
//
//	null:
//	  - /middle_name
//	boolean:
//	  - /People/active
//	number:
//	  - People.age
//	date:
//	  - /born
//
// The result is passed through a [Normalizer] that narrows it to the scalar
// types the target format supports. [InferSchema] goes the other way: it lists
// the path of every typed leaf of a document, and [GeneralizeSchema] suggests
// a shorter schema that matches the same keys in every list element.
//
// See the pathquery package for the query syntax.
//
// [NestedText]: https://nestedtext.org
package nt2
