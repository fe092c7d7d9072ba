// Package sse reads the line-oriented event streams served by the chat and
// feed endpoints.
//
// Only "data:" lines carry payloads. Blank lines, ":" comments and any
// other field lines are ignored, and a "[DONE]" payload ends the stream.
// Sequences are lazy: nothing is read until the caller ranges over them,
// and breaking out of the loop stops reading.
package sse

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// Done is the sentinel payload that terminates a stream.
const Done = "[DONE]"

const readBufferSize = 64 * 1024

// Data yields the trimmed payload of every "data:" line until [DONE] or
// EOF. Lines that are not valid UTF-8 are skipped. A read error other than
// EOF is yielded once and ends the sequence.
func Data(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		reader := bufio.NewReaderSize(r, readBufferSize)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				payload, ok := parseLine(line)
				if ok {
					if payload == Done {
						return
					}
					if !yield(payload, nil) {
						return
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", err)
				}
				return
			}
		}
	}
}

// parseLine returns the payload of a data line.
func parseLine(raw string) (string, bool) {
	if !utf8.ValidString(raw) {
		return "", false
	}
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}
	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(payload), true
}

// Decode parses every payload as JSON into T. Malformed payloads are
// dropped without ending the stream.
func Decode[T any](r io.Reader) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for payload, err := range Data(r) {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			var v T
			if json.Unmarshal([]byte(payload), &v) != nil {
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Chunk is the subset of a streamed chat completion chunk the reader uses.
type Chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Content returns choices[0].delta.content, or "".
func (c Chunk) Content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// ChatDeltas yields the non-empty content deltas of a streamed chat completion.
func ChatDeltas(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for chunk, err := range Decode[Chunk](r) {
			if err != nil {
				yield("", err)
				return
			}
			if content := chunk.Content(); content != "" {
				if !yield(content, nil) {
					return
				}
			}
		}
	}
}
