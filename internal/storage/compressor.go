package storage

import (
	"bytes"
	"fmt"
	"vehlog/internal/storage/interfaces"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// SnapshotCodec compresses persisted snapshot documents with zstd. Documents
// written before compression was enabled are plain JSON and are returned as is.
type SnapshotCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (c *SnapshotCodec) Compress(doc []byte) ([]byte, error) {
	return c.encoder.EncodeAll(doc, make([]byte, 0, len(doc)/4)), nil
}

func (c *SnapshotCodec) Decompress(stored []byte) ([]byte, error) {
	if !bytes.HasPrefix(stored, zstdMagic) {
		return stored, nil
	}
	doc, err := c.decoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot document: %w", err)
	}
	return doc, nil
}

func (c *SnapshotCodec) Close() {
	_ = c.encoder.Close()
	c.decoder.Close()
}

// NewZstdCompressor builds a codec at the named level (fastest, default,
// better, best). An empty level means better.
func NewZstdCompressor(level string) (interfaces.CompressorInterface, error) {
	speed := zstd.SpeedBetterCompression
	if level != "" {
		ok, parsed := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, fmt.Errorf("unknown compression level %q", level)
		}
		speed = parsed
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(speed))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &SnapshotCodec{encoder: encoder, decoder: decoder}, nil
}
