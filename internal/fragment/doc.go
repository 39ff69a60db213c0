// Package fragment keeps a shared block of text in sync across files.
//
// A fragment lives between two marker lines (for example "# BEGIN shared"
// and "# END shared"). One file, the module file, holds the canonical copy;
// other files embed a duplicate of it between the same markers.
//
// The package works on a "filtered view" of each file: a slice with one
// entry per line where everything before the start marker is blanked out.
// Blanking instead of dropping keeps line numbers aligned so a plain
// line-based unified diff of two filtered views only reports differences
// inside the fragments.
//
// # Operations
//
//   - Filter builds the filtered view of a file's text.
//   - Diff computes the unified diff between the fragments of two files,
//     suppressing hunks that only touch the blank padding.
//   - Splice and Put replace the fragment of a destination file with the
//     fragment of a source file, leaving the rest of the file untouched.
package fragment
