// Package flat provides an exact nearest-neighbour vector index that answers
// kNN queries by scanning every vector and scoring by squared L2 distance.
// It supports a compact checksummed binary format persisted through a
// driven.BlobStore.
package flat
