package snapshot

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriteArchive encodes a Snapshot and writes it zstd-compressed to w.
func WriteArchive(w io.Writer, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write archive: %v", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return nil
}

// ReadArchive decodes a zstd-compressed Snapshot from r.
func ReadArchive(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %v", err)
	}

	return Decode(data)
}
