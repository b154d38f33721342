// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bureau-foundation/nposix/lib/codec"
	"github.com/bureau-foundation/nposix/lib/random"
)

// Format is an encoding for a Batch.
type Format uint8

const (
	// FormatText is a header comment followed by one value per line.
	// Doubles are written with 17 significant digits, enough to read
	// back the exact float64.
	FormatText Format = iota + 1

	// FormatJSON is the Batch struct as a JSON object.
	FormatJSON

	// FormatCBOR is the Batch struct in deterministic CBOR.
	FormatCBOR
)

// String returns "text", "json", or "cbor".
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// ParseFormat parses the String form of a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown sequence format %q (want text, json, or cbor)", name)
	}
}

// textHeader starts the first line of the text format.
const textHeader = "# nposix sequence"

// Encode writes batch to w in format.
func Encode(w io.Writer, batch Batch, format Format) error {
	if err := batch.validate(); err != nil {
		return fmt.Errorf("encoding %s batch: %w", format, err)
	}
	switch format {
	case FormatText:
		return encodeText(w, batch)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(batch); err != nil {
			return fmt.Errorf("encoding json batch: %w", err)
		}
		return nil
	case FormatCBOR:
		if err := codec.NewEncoder(w).Encode(batch); err != nil {
			return fmt.Errorf("encoding cbor batch: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported sequence format %s", format)
	}
}

// Decode reads one batch in format from r.
func Decode(r io.Reader, format Format) (Batch, error) {
	var batch Batch
	switch format {
	case FormatText:
		var err error
		if batch, err = decodeText(r); err != nil {
			return Batch{}, err
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&batch); err != nil {
			return Batch{}, fmt.Errorf("decoding json batch: %w", err)
		}
	case FormatCBOR:
		if err := codec.NewDecoder(r).Decode(&batch); err != nil {
			return Batch{}, fmt.Errorf("decoding cbor batch: %w", err)
		}
	default:
		return Batch{}, fmt.Errorf("unsupported sequence format %s", format)
	}
	if err := batch.validate(); err != nil {
		return Batch{}, fmt.Errorf("decoding %s batch: %w", format, err)
	}
	return batch, nil
}

func encodeText(w io.Writer, batch Batch) error {
	buffered := bufio.NewWriter(w)
	fmt.Fprintf(buffered, "%s seed=%s end=%s kind=%s count=%d\n",
		textHeader, batch.Seed, batch.End, batch.Kind, batch.Len())
	for i := range batch.Len() {
		buffered.WriteString(batch.format(i))
		buffered.WriteByte('\n')
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("encoding text batch: %w", err)
	}
	return nil
}

func decodeText(r io.Reader) (Batch, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Batch{}, fmt.Errorf("decoding text batch: %w", err)
		}
		return Batch{}, fmt.Errorf("decoding text batch: empty input")
	}
	batch, count, err := parseTextHeader(scanner.Text())
	if err != nil {
		return Batch{}, fmt.Errorf("decoding text batch: %w", err)
	}
	if count < 0 || count > MaxCount {
		return Batch{}, fmt.Errorf("decoding text batch: count %d outside [0, %d]", count, MaxCount)
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if batch.Len() == count {
			return Batch{}, fmt.Errorf("decoding text batch: line %d: more than %d values", line, count)
		}
		if err := batch.appendText(text); err != nil {
			return Batch{}, fmt.Errorf("decoding text batch: line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Batch{}, fmt.Errorf("decoding text batch: %w", err)
	}
	if batch.Len() != count {
		return Batch{}, fmt.Errorf("decoding text batch: header promises %d values, found %d", count, batch.Len())
	}
	return batch, nil
}

// parseTextHeader parses "# nposix sequence seed=... end=... kind=...
// count=..." and returns the empty batch it describes plus the count.
func parseTextHeader(header string) (Batch, int, error) {
	rest, found := strings.CutPrefix(header, textHeader)
	if !found {
		return Batch{}, 0, fmt.Errorf("missing %q header", textHeader)
	}
	var batch Batch
	count := -1
	for _, field := range strings.Fields(rest) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return Batch{}, 0, fmt.Errorf("header field %q is not key=value", field)
		}
		var err error
		switch key {
		case "seed":
			batch.Seed, err = random.ParseSeed(value)
		case "end":
			batch.End, err = random.ParseSeed(value)
		case "kind":
			batch.Kind, err = ParseKind(value)
		case "count":
			count, err = strconv.Atoi(value)
		default:
			err = fmt.Errorf("unknown header field %q", key)
		}
		if err != nil {
			return Batch{}, 0, err
		}
	}
	if !batch.Kind.valid() {
		return Batch{}, 0, fmt.Errorf("header has no kind")
	}
	if count < 0 {
		return Batch{}, 0, fmt.Errorf("header has no count")
	}
	return batch, count, nil
}

// format renders value i in the text format.
func (b Batch) format(i int) string {
	switch b.Kind {
	case KindInt32:
		return strconv.FormatInt(int64(b.Int32[i]), 10)
	case KindUint32:
		return strconv.FormatUint(uint64(b.Uint32[i]), 10)
	default:
		return strconv.FormatFloat(b.Double[i], 'g', 17, 64)
	}
}

// appendText parses one text-format value and appends it.
func (b *Batch) appendText(text string) error {
	switch b.Kind {
	case KindInt32:
		value, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return err
		}
		b.Int32 = append(b.Int32, int32(value))
	case KindUint32:
		value, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return err
		}
		b.Uint32 = append(b.Uint32, uint32(value))
	default:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return err
		}
		b.Double = append(b.Double, value)
	}
	return nil
}
