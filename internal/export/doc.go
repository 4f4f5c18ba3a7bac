// Package export writes solved pendulum runs in formats other tools read:
// a JSON document of every derived series, a CSV table of the same, and SVG
// drawings of the bob path or a rendered frame.
package export
