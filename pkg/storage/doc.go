// Package storage persists image blobs under content-addressed names.
//
// A stored file is named by the MD5 hex digest of its bytes plus a fixed
// .jpg extension, regardless of the actual encoded format. The name is a
// pure function of content, so byte-identical downloads collapse to one
// file without any dedup table.
//
// The Store type is the primary interface. It maintains an in-memory set
// of known digests, rebuilt from a directory scan at startup, and writes
// atomically via temporary files and rename.
//
// Usage:
//
//	store, err := storage.NewStore("data/images")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, dup, err := store.Save(imageBytes)
//	if err != nil {
//	    log.Printf("Failed to save image: %v", err)
//	}
package storage
