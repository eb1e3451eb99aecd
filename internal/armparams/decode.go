package armparams

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// decodeJSON parses one JSON value, keeping numbers as json.Number so
// integers beyond 2^53 reach ARM unchanged.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
