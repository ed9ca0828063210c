package als

import (
	"bytes"
	"compress/flate"
	"io"
	"os"
	"unicode/utf8"

	apperrors "github.com/setscout/setscout/internal/errors"
)

// gzip member header magic bytes.
const (
	gzipID1 = 0x1f
	gzipID2 = 0x8b
)

// gzip FLG bits (RFC 1952).
const (
	flagHeaderCRC = 1 << 1
	flagExtra     = 1 << 2
	flagName      = 1 << 3
	flagComment   = 1 << 4
)

// baseHeaderLen is the fixed gzip header before any optional sections,
// trailerLen the CRC32 + ISIZE trailer after the deflate stream.
const (
	baseHeaderLen = 10
	trailerLen    = 8
)

// Sentinel errors for the decoder taxonomy. Matching is by code, so a
// specific decode failure still satisfies errors.Is against these.
var (
	ErrFileNotFound        = apperrors.New(apperrors.ErrCodeFileNotFound, "project file not found", nil)
	ErrDecompressionFailed = apperrors.New(apperrors.ErrCodeDecompressionFailed, "failed to decompress project file", nil)
	ErrInvalidText         = apperrors.New(apperrors.ErrCodeInvalidText, "decompressed payload is not valid UTF-8", nil)
)

// Decode turns raw container bytes into the decoded XML document.
// Bytes without the gzip magic are treated as already-decoded text and
// passed through unchanged (Live never writes such files, but tolerating
// them makes hand-unpacked sets indexable).
func Decode(data []byte) (string, error) {
	if len(data) < 2 || data[0] != gzipID1 || data[1] != gzipID2 {
		if !utf8.Valid(data) {
			return "", apperrors.New(apperrors.ErrCodeInvalidText, "raw payload is not valid UTF-8 text", nil)
		}
		return string(data), nil
	}

	body, err := deflateBody(data)
	if err != nil {
		return "", err
	}

	r := flate.NewReader(bytes.NewReader(body))
	defer func() { _ = r.Close() }()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxDecodedBytes+1))
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeDecompressionFailed, "corrupt deflate stream", err)
	}
	if n <= 0 {
		return "", apperrors.New(apperrors.ErrCodeDecompressionFailed, "empty deflate stream", nil)
	}
	if n > maxDecodedBytes {
		return "", apperrors.New(apperrors.ErrCodeFileTooLarge, "decompressed document exceeds size cap", nil)
	}

	if !utf8.Valid(buf.Bytes()) {
		return "", apperrors.New(apperrors.ErrCodeInvalidText, "decompressed payload is not valid UTF-8", nil)
	}

	return buf.String(), nil
}

// DecodeFile reads and decodes the container at path.
func DecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err)
		case os.IsPermission(err):
			return "", apperrors.Wrap(apperrors.ErrCodeFilePermission, err)
		default:
			return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err)
		}
	}
	return Decode(data)
}

// deflateBody walks the flag-gated gzip header and returns the raw deflate
// stream between the header and the 8-byte trailer. The header is variable
// length: FEXTRA is length-prefixed, FNAME and FCOMMENT are NUL-terminated,
// FHCRC adds two bytes. Assuming a fixed 10-byte header silently corrupts
// sets written with an original-filename field.
func deflateBody(data []byte) ([]byte, error) {
	if len(data) < baseHeaderLen+trailerLen {
		return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "truncated gzip container", nil)
	}

	flags := data[3]
	off := baseHeaderLen

	if flags&flagExtra != 0 {
		if off+2 > len(data) {
			return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "truncated gzip extra field", nil)
		}
		xlen := int(data[off]) | int(data[off+1])<<8
		if off+2+xlen > len(data) {
			return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "gzip extra field overruns input", nil)
		}
		off += 2 + xlen
	}

	if flags&flagName != 0 {
		nul := bytes.IndexByte(data[off:], 0)
		if nul < 0 {
			return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "unterminated gzip filename field", nil)
		}
		off += nul + 1
	}

	if flags&flagComment != 0 {
		nul := bytes.IndexByte(data[off:], 0)
		if nul < 0 {
			return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "unterminated gzip comment field", nil)
		}
		off += nul + 1
	}

	if flags&flagHeaderCRC != 0 {
		off += 2
	}

	if off > len(data)-trailerLen {
		return nil, apperrors.New(apperrors.ErrCodeDecompressionFailed, "gzip header overruns trailer", nil)
	}

	return data[off : len(data)-trailerLen], nil
}
