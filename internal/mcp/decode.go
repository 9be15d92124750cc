package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// decodeResponse parses a reply body into a JSON-RPC response for the
// request with the given id. Both application/json and text/event-stream
// bodies are accepted.
func decodeResponse(reply *Reply, requestID int64) (*Response, error) {
	contentType := reply.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/event-stream") {
		return parseSSE(reply.Body, requestID)
	}

	var resp Response
	if err := json.Unmarshal(reply.Body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.ID != nil && *resp.ID != requestID {
		return nil, fmt.Errorf("response id %d does not match request id %d", *resp.ID, requestID)
	}
	return &resp, nil
}

// parseSSE reads an SSE stream and extracts the JSON-RPC response for the
// given request id. The data lines of an event are joined with "\n" before
// decoding. Server requests and notifications on the stream are skipped; a
// response without an id is accepted as the answer.
func parseSSE(body []byte, requestID int64) (*Response, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), len(body)+1)

	var data []string
	flush := func() *Response {
		if len(data) == 0 {
			return nil
		}
		payload := strings.Join(data, "\n")
		data = data[:0]

		var resp Response
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			// Skip events that aren't valid JSON-RPC.
			return nil
		}
		if resp.Result == nil && resp.Error == nil {
			return nil
		}
		if resp.ID != nil && *resp.ID != requestID {
			return nil
		}
		return &resp
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if resp := flush(); resp != nil {
				return resp, nil
			}
			continue
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(v, " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sse stream: %w", err)
	}
	if resp := flush(); resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("no response found for request id %d in sse stream", requestID)
}
