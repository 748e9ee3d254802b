// Package docvec crawls documentation and policy reference sites,
// normalizes every page into a canonical Document and loads the documents
// into a vector index in bounded batches.
//
// This package contains domain types, pure transforms and interfaces
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// htmltomarkdown/, sqlite/, upstash/).
package docvec
