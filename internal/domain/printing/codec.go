package printing

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DocumentCodec compresses rendered receipts before storage. PDFs compress
// well and the document column is read far less often than it is written.
type DocumentCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewDocumentCodec creates a codec. The encoder and decoder are safe for
// concurrent EncodeAll/DecodeAll use and are reused for the process lifetime.
func NewDocumentCodec() (*DocumentCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &DocumentCodec{encoder: encoder, decoder: decoder}, nil
}

// Compress returns the zstd-compressed form of raw.
func (c *DocumentCodec) Compress(raw []byte) []byte {
	return c.encoder.EncodeAll(raw, nil)
}

// Decompress returns the original document bytes.
func (c *DocumentCodec) Decompress(stored []byte) ([]byte, error) {
	raw, err := c.decoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress document: %w", err)
	}
	return raw, nil
}
