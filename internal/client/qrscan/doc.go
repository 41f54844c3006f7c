// Package qrscan turns camera stand-ins into scanned payloads: QR images on
// disk, decoded with gozxing, and line-oriented text streams.
package qrscan
