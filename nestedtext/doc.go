// Package nestedtext implements [NestedText] parsing and serializing.
//
// NestedText is a human-friendly data format in which every leaf is a string.
// It uses a JSON-like structure of strings, maps and lists, with an
// indentation based syntax that needs no quoting or escaping.
//
//	# a basic NestedText document
//	name: Katheryn McDaniel
//	phone:
//	  - 1-210-555-5297
//	  - 1-210-555-8470
//	address:
//	  > 138 Almond Street
//	  > Topeka, Kansas 20697
//	tags: [admin, ops]
//
// Documents decode into a [tree.Node] built from *tree.Map, tree.List and
// tree.String. Map keys keep their document order.
//
// Use the root nt2 package to turn the strings into booleans, numbers, nulls
// and dates.
//
// [NestedText]: https://nestedtext.org
package nestedtext
