// Package jsonutil provides a configurable JSON encoding/decoding layer,
// defaulting to bytedance/sonic rather than encoding/json, since the
// document's sole deliverable is JSON and the assembled documents can be
// large.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

// Encoder is the interface for streaming JSON encoding.
type Encoder interface {
	Encode(v any) error
}

// Decoder is the interface for streaming JSON decoding.
type Decoder interface {
	Decode(v any) error
}

// Config holds the JSON encoding/decoding functions, so the backend can be
// swapped without touching call sites.
type Config struct {
	Marshal       func(v any) ([]byte, error)
	MarshalIndent func(v any, prefix, indent string) ([]byte, error)
	Unmarshal     func(data []byte, v any) error
	NewEncoder    func(w io.Writer) Encoder
	NewDecoder    func(r io.Reader) Decoder
}

// DefaultConfig returns the default configuration, backed by sonic's
// standard-compatible API.
func DefaultConfig() Config {
	return Config{
		Marshal:       sonic.ConfigStd.Marshal,
		MarshalIndent: sonic.ConfigStd.MarshalIndent,
		Unmarshal:     sonic.ConfigStd.Unmarshal,
		NewEncoder: func(w io.Writer) Encoder {
			return sonic.ConfigStd.NewEncoder(w)
		},
		NewDecoder: func(r io.Reader) Decoder {
			return sonic.ConfigStd.NewDecoder(r)
		},
	}
}

var config = DefaultConfig()

// SetConfig replaces the global JSON configuration.
func SetConfig(c Config) { config = c }

// GetConfig returns the current JSON configuration.
func GetConfig() Config { return config }

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) { return config.Marshal(v) }

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON-encoded data into v.
func Unmarshal(data []byte, v any) error { return config.Unmarshal(data, v) }

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) Encoder { return config.NewEncoder(w) }

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) Decoder { return config.NewDecoder(r) }
