// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the algorithm applied to an encoded batch.
type Compression uint8

const (
	// CompressionNone leaves the encoding as is.
	CompressionNone Compression = iota

	// CompressionZstd is a zstd frame at the default level. Best ratio
	// for the text and JSON formats.
	CompressionZstd

	// CompressionLZ4 is an LZ4 frame. Faster, with a lower ratio.
	CompressionLZ4
)

// maxDecompressedSize bounds decompression output so a corrupt or
// hostile input cannot exhaust memory. Comfortably above the text
// encoding of MaxCount doubles.
const maxDecompressedSize = 1 << 30

// String returns "none", "zstd", or "lz4".
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses the String form of a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, or lz4)", name)
	}
}

// zstdEncoder and zstdDecoder are shared; both are safe for
// concurrent use through EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("sequence: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecompressedSize))
	if err != nil {
		panic("sequence: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress applies c to data. For CompressionNone it returns data
// unchanged.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}
}

// Decompress reverses Compress.
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return result, nil
	case CompressionLZ4:
		limited := io.LimitReader(lz4.NewReader(bytes.NewReader(data)), maxDecompressedSize+1)
		result, err := io.ReadAll(limited)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if len(result) > maxDecompressedSize {
			return nil, fmt.Errorf("lz4 decompress: output exceeds %d bytes", maxDecompressedSize)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}
}

// Write encodes batch in format, compresses it, and writes the result
// to w.
func Write(w io.Writer, batch Batch, format Format, c Compression) error {
	var encoded bytes.Buffer
	if err := Encode(&encoded, batch, format); err != nil {
		return err
	}
	compressed, err := Compress(encoded.Bytes(), c)
	if err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("writing %s batch: %w", format, err)
	}
	return nil
}

// Read reverses Write.
func Read(r io.Reader, format Format, c Compression) (Batch, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDecompressedSize+1))
	if err != nil {
		return Batch{}, fmt.Errorf("reading %s batch: %w", format, err)
	}
	decompressed, err := Decompress(data, c)
	if err != nil {
		return Batch{}, err
	}
	return Decode(bytes.NewReader(decompressed), format)
}
