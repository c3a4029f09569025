package schema

import (
	"encoding/json"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Request is a control frame sent by a client (or by the coordinator to a
// backend). Path, Query and Filters are top-level; command-specific parameters
// travel in Payload. Unrecognized keys are ignored on receive.
type Request struct {
	Command string          `json:"command"`
	Path    string          `json:"path,omitempty"`
	Query   string          `json:"query,omitempty"`
	Filters []string        `json:"filters,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is a control frame sent by a server. Payload is always present on
// the wire, encoded as null when there is nothing to say.
type Response struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// UploadPayload travels in an upload request and announces the binary body
// that follows the server's "ready" frame.
type UploadPayload struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// ReadyPayload announces a download body.
type ReadyPayload struct {
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256,omitempty"`
}

// PreviewReadyPayload announces a preview body of the given preview type.
type PreviewReadyPayload struct {
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// UploadResultPayload is the final frame of a successful upload.
type UploadResultPayload struct {
	OK     bool   `json:"ok"`
	SHA256 string `json:"sha256"`
}

// DeletePayload names the file to remove.
type DeletePayload struct {
	Name string `json:"name"`
}

// DeleteResultPayload is the final frame of a successful delete.
type DeleteResultPayload struct {
	OK bool `json:"ok"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRequest creates a request with a command-specific payload, which may be
// nil.
func NewRequest(command string, payload any) (Request, error) {
	req := Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Request{}, err
		}
		req.Payload = data
	}
	return req, nil
}

// NewResponse creates a response of the given type. A nil payload is encoded
// as null.
func NewResponse(t string, payload any) (Response, error) {
	resp := Response{Type: t}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Response{}, err
		}
		resp.Payload = data
	}
	return resp, nil
}

// NewErrorResponse creates an error response carrying a failure token.
func NewErrorResponse(token string) Response {
	resp, _ := NewResponse(TypeError, token)
	return resp
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Upload decodes the payload of an upload request.
func (r Request) Upload() (UploadPayload, error) {
	var payload UploadPayload
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return payload, fmt.Errorf("upload payload: %w", err)
	}
	return payload, nil
}

// Delete decodes the payload of a delete request.
func (r Request) Delete() (DeletePayload, error) {
	var payload DeletePayload
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return payload, fmt.Errorf("delete payload: %w", err)
	}
	return payload, nil
}

// IsError returns true when the response is an error frame.
func (r Response) IsError() bool {
	return r.Type == TypeError
}

// ErrorToken returns the failure token of an error response, or an empty
// string for any other response type.
func (r Response) ErrorToken() string {
	if r.Type != TypeError {
		return ""
	}
	var token string
	if err := json.Unmarshal(r.Payload, &token); err != nil {
		return ""
	}
	return token
}

// UnmarshalFrame decodes raw control-frame JSON into the response.
func (r *Response) UnmarshalFrame(data []byte) error {
	return json.Unmarshal(data, r)
}

// Decode unmarshals the response payload into v.
func (r Response) Decode(v any) error {
	if len(r.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", r.Type)
	}
	return json.Unmarshal(r.Payload, v)
}

// BodySize returns the size of the binary body announced by a ready or
// preview_ready response, or -1 when the response announces no body.
func (r Response) BodySize() int64 {
	switch r.Type {
	case TypeReady:
		var payload ReadyPayload
		if err := r.Decode(&payload); err == nil && payload.Size > 0 {
			return payload.Size
		}
	case TypePreviewReady:
		var payload PreviewReadyPayload
		if err := r.Decode(&payload); err == nil && payload.Size > 0 {
			return payload.Size
		}
	}
	return -1
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Request) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func (r Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}
