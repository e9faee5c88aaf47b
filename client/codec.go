package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Codec encodes request bodies and decodes response bodies.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default [Codec], backed by encoding/json.
type JSONCodec struct {
	UseNumber bool
}

func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c JSONCodec) Unmarshal(data []byte, v any) error {
	d := json.NewDecoder(bytes.NewReader(data))
	if c.UseNumber {
		d.UseNumber()
	}

	if err := d.Decode(v); err != nil {
		return err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level value")
	}

	return nil
}

// requested reports whether T asks for a decoded value.
func requested[T any]() bool {
	var zero T
	_, skip := any(zero).(NoContent)
	return !skip
}

// decode turns body into a *T. NoContent yields nil, string and []byte
// take the body as is, everything else goes through codec. A body the
// codec rejects, or a literal JSON null, yields nil.
func decode[T any](codec Codec, body []byte, logger *slog.Logger) *T {
	var v T
	switch dst := any(&v).(type) {
	case *NoContent:
		return nil
	case *string:
		*dst = string(body)
		return &v
	case *[]byte:
		*dst = bytes.Clone(body)
		return &v
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if err := codec.Unmarshal(trimmed, &v); err != nil {
		logger.Debug("decoding response body", "type", fmt.Sprintf("%T", v), "error", err)
		return nil
	}

	return &v
}

// encode renders a request payload. Strings, byte slices and
// json.RawMessage are sent verbatim; nil sends no body.
func encode(codec Codec, payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	case json.RawMessage:
		return p, nil
	}

	b, err := codec.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	return b, nil
}
