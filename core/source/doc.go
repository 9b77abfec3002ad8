// Package source fetches raw block list content from local files,
// HTTP(S) URLs and s3:// object storage locations. Fetched content
// keeps its URL when it has one so rules built from it can carry
// refreshable provenance; local files fetch with an empty URL.
package source
