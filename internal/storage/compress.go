package storage

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	decOnce sync.Once
	decoder *zstd.Decoder
)

// IsCompressed reports whether blob starts with a zstd frame header.
func IsCompressed(blob []byte) bool {
	return bytes.HasPrefix(blob, zstdMagic)
}

// Compress wraps blob in a zstd frame.
func Compress(blob []byte) []byte {
	encOnce.Do(func() {
		// nil writer: only EncodeAll is used, which is safe for concurrent calls
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder.EncodeAll(blob, make([]byte, 0, len(blob)/2))
}

// Decompress undoes Compress. Plain blobs are returned unchanged.
func Decompress(blob []byte) ([]byte, error) {
	if !IsCompressed(blob) {
		return blob, nil
	}
	decOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	out, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
