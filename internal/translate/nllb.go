package translate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCallTimeout bounds a single translation round trip when the
	// caller's context carries no deadline of its own.
	DefaultCallTimeout = 120 * time.Second

	gradioCallPath = "/gradio_api/call/translate"
)

// NLLBClient talks to a Gradio-hosted NLLB translation space. The space
// exposes a two-step protocol: POST the inputs to the call endpoint and
// receive an event ID, then GET the event stream for that ID until a
// completion event carries the output.
type NLLBClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewNLLBClient creates a client for the space at baseURL. token is an
// optional bearer token for authenticated access; pass "" for public spaces.
func NewNLLBClient(baseURL, token string) *NLLBClient {
	return &NLLBClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultCallTimeout},
	}
}

// callRequest is the Gradio call payload: positional inputs in the order the
// space's translate endpoint declares them (text, source, target).
type callRequest struct {
	Data []string `json:"data"`
}

// callResponse carries the event ID to poll for the result.
type callResponse struct {
	EventID string `json:"event_id"`
}

// Translate sends one text through the space. Empty input is returned
// unchanged without a network call.
func (c *NLLBClient) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	reqID := uuid.New().String()
	start := time.Now()

	eventID, err := c.submitCall(ctx, callRequest{Data: []string{text, sourceLanguage, targetLanguage}})
	if err != nil {
		return "", err
	}

	result, err := c.awaitResult(ctx, eventID)
	if err != nil {
		return "", err
	}

	log.Printf("nllb translate req=%s chars=%d elapsed=%s", reqID, len(text), time.Since(start).Round(time.Millisecond))
	return result, nil
}

// submitCall posts the inputs and returns the event ID to poll.
func (c *NLLBClient) submitCall(ctx context.Context, payload callRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+gradioCallPath, bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Kind: FailureRemote, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode/100 != 2 {
		return "", &BackendError{
			Kind: FailureRemote,
			Err:  fmt.Errorf("call endpoint returned status %d", resp.StatusCode),
		}
	}

	var call callResponse
	if err := json.Unmarshal(raw, &call); err != nil {
		return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("decode call response: %w", err)}
	}
	if call.EventID == "" {
		return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("call response missing event_id")}
	}

	return call.EventID, nil
}

// awaitResult reads the event stream for eventID until a terminal event.
func (c *NLLBClient) awaitResult(ctx context.Context, eventID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+gradioCallPath+"/"+eventID, nil)
	if err != nil {
		return "", &BackendError{Kind: FailureRemote, Err: err}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", &BackendError{
			Kind: FailureRemote,
			Err:  fmt.Errorf("event endpoint returned status %d", resp.StatusCode),
		}
	}

	// Server-sent events: "event: <name>" lines followed by "data: <json>".
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	event := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				return decodeEventData(data)
			case "error":
				return "", &BackendError{Kind: FailureRemote, Err: fmt.Errorf("space reported error: %s", data)}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", classifyTransportError(err)
	}

	return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("event stream ended without a completion event")}
}

// decodeEventData unpacks the completion payload, a JSON array whose first
// element is the translated string.
func decodeEventData(data string) (string, error) {
	var outputs []string
	if err := json.Unmarshal([]byte(data), &outputs); err != nil {
		return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("decode completion data: %w", err)}
	}
	if len(outputs) == 0 {
		return "", &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("completion data carried no outputs")}
	}
	return outputs[0], nil
}

func (c *NLLBClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// classifyTransportError maps transport failures onto the typed backend
// failure kinds: deadline and network timeouts are distinguishable from
// remote-side trouble.
func classifyTransportError(err error) *BackendError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &BackendError{Kind: FailureTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &BackendError{Kind: FailureTimeout, Err: err}
	}
	return &BackendError{Kind: FailureRemote, Err: err}
}
