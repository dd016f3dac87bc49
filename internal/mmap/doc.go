// Package mmap maps files read-only into memory.
//
// Corpus and vocabulary files are scanned front to back exactly once, so
// mappings are advised for sequential access. Platforms without mmap(2)
// fall back to reading the whole file.
package mmap
