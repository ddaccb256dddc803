package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// CleanSequence removes every marker byte from a single-record FASTA stream and
// re-wraps the sequence at the width of its first sequence line. The header is kept as is.
func CleanSequence(r io.Reader, w io.Writer, marker byte) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<30)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return fmt.Errorf("sequence is empty")
	}
	header := bytes.Clone(scanner.Bytes())

	width := 0
	var sequence []byte
	for scanner.Scan() {
		line := scanner.Bytes()
		if width == 0 {
			width = len(line)
		}
		for _, b := range line {
			if b != marker {
				sequence = append(sequence, b)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	if _, err := out.Write(header); err != nil {
		return err
	}
	if width == 0 {
		return out.Flush()
	}
	for start := 0; start < len(sequence); start += width {
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := out.Write(sequence[start:min(start+width, len(sequence))]); err != nil {
			return err
		}
	}
	return out.Flush()
}

// CleanSequenceFile cleans in and writes the result to out, which may be the same path.
func CleanSequenceFile(in, out string, marker byte) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var cleaned bytes.Buffer
	if err := CleanSequence(bytes.NewReader(data), &cleaned, marker); err != nil {
		return fmt.Errorf("failed to clean %v: %w", in, err)
	}
	return os.WriteFile(out, cleaned.Bytes(), 0o644)
}
