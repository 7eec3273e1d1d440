package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode fills out field by field. A field whose value has the wrong
// shape is left empty and reported in partial; the other fields are kept.
// Only a document that is not a json object fails.
func Decode(doc []byte, out any) (partial error, err error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("metadata is not a json object: %w", err)
	}
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return nil, err
	}
	return md.Decode(fields), nil
}
