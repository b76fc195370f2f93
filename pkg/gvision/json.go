package gvision

import (
	"fmt"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/protobuf/encoding/protojson"
)

// MarshalResponse renders a raw Vision response as JSON.
// Either field may be empty depending on which detection produced it.
func MarshalResponse(anns []*visionpb.EntityAnnotation, full *visionpb.TextAnnotation, pretty bool) ([]byte, error) {
	resp := &visionpb.AnnotateImageResponse{
		TextAnnotations:    anns,
		FullTextAnnotation: full,
	}
	opts := protojson.MarshalOptions{}
	if pretty {
		opts.Multiline = true
		opts.Indent = "  "
	}
	data, err := opts.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Vision response: %w", err)
	}
	return data, nil
}

// UnmarshalResponse reads a response written by MarshalResponse
func UnmarshalResponse(data []byte) ([]*visionpb.EntityAnnotation, *visionpb.TextAnnotation, error) {
	var resp visionpb.AnnotateImageResponse
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse Vision response: %w", err)
	}
	return resp.GetTextAnnotations(), resp.GetFullTextAnnotation(), nil
}
