// Package identifier implements the file identifier job: the resumable,
// chunked pass that computes content identifiers for orphan file paths,
// deduplicates them into objects, and links each path to its object.
//
// A run partitions the orphan set by ascending file_path id. The step count
// is fixed at init from the orphan count, and each step advances a cursor
// past the highest id it processed, so every orphan present at init is
// visited exactly once even as earlier rows leave the orphan set.
package identifier
