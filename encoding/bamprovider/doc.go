// Package bamprovider provides utilities for scanning a BAM or SAM file
// sequentially, in file order.
//
// The Provider is an interface for opening an alignment file; an Iterator
// yields its records one at a time.
package bamprovider
