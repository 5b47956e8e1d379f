// Package rpc exposes the employee directory over gRPC. Messages are plain Go
// structs carried with a JSON codec, so no generated protobuf code is needed.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients must request ("application/grpc+json").
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() { //nolint: gochecknoinits // codecs are registered globally by grpc
	encoding.RegisterCodec(jsonCodec{})
}
