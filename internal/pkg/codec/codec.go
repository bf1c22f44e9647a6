// Package codec serializes full booking snapshots into a single text column.
// Payloads are JSON-marshalled, gzip-compressed and base64-encoded so they
// survive storage in a TEXT column without being mistaken for raw SQL values.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"

	"theater-booking-api/internal/pkg/errs"

	"github.com/klauspost/compress/gzip"
)

// Encode marshals v and applies the gzip+base64 transform.
func Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal snapshot")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", errs.Wrap(err, "failed to compress snapshot")
	}
	if err := zw.Close(); err != nil {
		return "", errs.Wrap(err, "failed to flush snapshot compressor")
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode into v. Rows written before the codec was introduced
// hold plain JSON text; when the stored value does not decode as
// base64+gzip it is parsed as raw JSON instead, so historical rows stay
// readable.
func Decode(token string, v any) error {
	if token == "" {
		return errs.New("empty snapshot token")
	}

	raw, err := decodeTransformed(token)
	if err != nil {
		// Legacy row: the column holds the JSON document itself.
		raw = []byte(token)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return errs.Wrap(err, "failed to unmarshal snapshot")
	}
	return nil
}

func decodeTransformed(token string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
