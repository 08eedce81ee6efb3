package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/model"
	"chat-relay/internal/utils"
	"chat-relay/pkg/logger"
)

const defaultContentType = "text/plain"

// ResultKind tags the outcome of a relay attempt.
type ResultKind int

const (
	// ResultOK means the webhook answered with a status below 400.
	ResultOK ResultKind = iota
	// ResultUpstreamError means the webhook answered with 4xx/5xx. The reply
	// is still mirrored verbatim.
	ResultUpstreamError
	// ResultTransportError means no usable reply came back.
	ResultTransportError
	// ResultInternalError means the relay itself failed.
	ResultInternalError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultUpstreamError:
		return "upstream_error"
	case ResultTransportError:
		return "transport_error"
	case ResultInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Relay call. Response is set for ResultOK and
// ResultUpstreamError, Message for the two synthesized kinds.
type Result struct {
	Kind     ResultKind
	Response model.UpstreamResponse
	Message  string
}

// StatusCode is the status to send back to the caller.
func (r Result) StatusCode() int {
	switch r.Kind {
	case ResultOK, ResultUpstreamError:
		return r.Response.StatusCode
	case ResultTransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Recorder receives one observation per relay attempt. statusCode is 0 when
// the webhook never answered.
type Recorder interface {
	ObserveUpstream(outcome string, statusCode int, elapsed time.Duration)
}

type RelayService struct {
	client   *http.Client
	url      string
	recorder Recorder
}

// NewRelayService wires the outbound client from cfg. recorder may be nil.
func NewRelayService(cfg config.UpstreamConfig, recorder Recorder) *RelayService {
	return NewRelayServiceWithClient(utils.NewHTTPClient(cfg.Timeout, cfg.MaxRedirects), cfg.URL, recorder)
}

func NewRelayServiceWithClient(client *http.Client, url string, recorder Recorder) *RelayService {
	return &RelayService{
		client:   client,
		url:      url,
		recorder: recorder,
	}
}

// Relay makes a single POST to the webhook and never retries. Every failure
// is folded into the returned Result.
func (s *RelayService) Relay(ctx context.Context, req model.ChatRequest) (res Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithFields(logger.Fields{"panic": rec}).Error("Unexpected error while relaying")
			res = internalError(fmt.Errorf("%v", rec))
		}
		s.observe(res, time.Since(start))
	}()

	payload, err := json.Marshal(req)
	if err != nil {
		logger.Errorf("Unexpected error: %v", err)
		return internalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		logger.Errorf("Unexpected error: %v", err)
		return internalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		logger.WithFields(logger.Fields{"url": s.url, "error": err.Error()}).Error("Error calling webhook")
		return fromTransportError(err, resp)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithFields(logger.Fields{
			"status": resp.StatusCode,
			"error":  err.Error(),
		}).Error("Error reading webhook response")
		return badGateway(err)
	}

	logger.WithFields(logger.Fields{"status": resp.StatusCode}).Info("Webhook response")
	logger.WithFields(logger.Fields{"body": string(body)}).Debug("Webhook response body")

	return fromResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

func (s *RelayService) observe(res Result, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	status := 0
	if res.Kind == ResultOK || res.Kind == ResultUpstreamError {
		status = res.Response.StatusCode
	}
	s.recorder.ObserveUpstream(res.Kind.String(), status, elapsed)
}

// fromResponse shapes a received reply. JSON bodies are re-emitted compacted
// as application/json; bodies that only claim to be JSON, and everything
// else, are passed through byte for byte.
func fromResponse(status int, contentType string, body []byte) Result {
	kind := ResultOK
	if status >= http.StatusBadRequest {
		kind = ResultUpstreamError
	}

	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			return Result{Kind: kind, Response: model.UpstreamResponse{
				StatusCode:  status,
				ContentType: "application/json",
				Body:        buf.Bytes(),
			}}
		}
		logger.WithFields(logger.Fields{"status": status}).Warn("Webhook declared JSON but body did not parse, forwarding raw")
		return Result{Kind: kind, Response: model.UpstreamResponse{
			StatusCode:  status,
			ContentType: contentType,
			Body:        body,
		}}
	}

	return Result{Kind: kind, Response: mirror(status, contentType, body)}
}

// fromTransportError mirrors resp when the client handed one back along with
// err, and falls back to 502 otherwise. A response left over from an exceeded
// redirect limit has already been drained and is never mirrored.
func fromTransportError(err error, resp *http.Response) Result {
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
		if errors.Is(err, utils.ErrRedirectLimit) {
			return badGateway(err)
		}
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			kind := ResultOK
			if resp.StatusCode >= http.StatusBadRequest {
				kind = ResultUpstreamError
			}
			return Result{Kind: kind, Response: mirror(resp.StatusCode, resp.Header.Get("Content-Type"), body)}
		}
		logger.WithFields(logger.Fields{"error": readErr.Error()}).Error("Failed to forward response attached to transport error")
	}
	return badGateway(err)
}

func mirror(status int, contentType string, body []byte) model.UpstreamResponse {
	if contentType == "" {
		contentType = defaultContentType
	}
	return model.UpstreamResponse{StatusCode: status, ContentType: contentType, Body: body}
}

func badGateway(err error) Result {
	return Result{Kind: ResultTransportError, Message: "Webhook error: " + err.Error()}
}

func internalError(err error) Result {
	return Result{Kind: ResultInternalError, Message: err.Error()}
}
