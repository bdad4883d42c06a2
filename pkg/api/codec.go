// Package api holds the request and response messages of the splitpocket
// RPC services. Messages travel as JSON.
package api

import "encoding/json"

// Codec marshals messages as JSON. Register it on both handlers and clients
// with connect.WithCodec.
type Codec struct{}

// Name is the connect codec name, used in the content type.
func (Codec) Name() string { return "json" }

// Marshal encodes msg as JSON.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes JSON data into msg.
func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
