package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/baditaflorin/go_string_processor/internal/adapters/logger"
	"github.com/baditaflorin/go_string_processor/internal/core/casing"
	"github.com/baditaflorin/go_string_processor/internal/core/pipeline"
	"github.com/baditaflorin/go_string_processor/internal/core/reverse"
	"github.com/baditaflorin/go_string_processor/internal/core/spaces"
)

func newTestHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	r, err := reverse.NewReverser(reverse.DefaultConfig())
	if err != nil {
		t.Fatalf("reverser: %v", err)
	}
	u, err := casing.NewUpper(casing.DefaultConfig())
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	s, err := spaces.NewRemover(spaces.DefaultConfig())
	if err != nil {
		t.Fatalf("remover: %v", err)
	}
	return NewHandler(pipeline.New(r, u, s), logger.NewNopLogger(), opts...)
}

func doRequest(h *Handler, method, path, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	req.SetBodyString(body)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h.HandleRequest(ctx)
	return ctx
}

func TestOperationEndpoints(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		path     string
		body     string
		expected string
	}{
		{path: "/reverse", body: `{"text":"hello"}`, expected: "olleh"},
		{path: "/upper", body: `{"text":"Hello World"}`, expected: "HELLO WORLD"},
		{path: "/remove-spaces", body: `{"text":"a b  c"}`, expected: "abc"},
		{path: "/reverse", body: `{"text":""}`, expected: ""},
		{path: "/apply", body: `{"text":"ab cd","operations":["upper","reverse"]}`, expected: "DC BA"},
		{path: "/apply", body: `{"text":"ab cd"}`, expected: "ab cd"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			ctx := doRequest(h, fasthttp.MethodPost, tc.path, tc.body)
			if ctx.Response.StatusCode() != fasthttp.StatusOK {
				t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
			}

			var resp Response
			if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if resp.Result != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, resp.Result)
			}
			if resp.OutputLength != len(tc.expected) {
				t.Errorf("expected output length %d, got %d", len(tc.expected), resp.OutputLength)
			}
		})
	}
}

func TestErrorResponses(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "unknown path", method: fasthttp.MethodPost, path: "/lower", body: `{}`, status: fasthttp.StatusNotFound},
		{name: "wrong method", method: fasthttp.MethodGet, path: "/reverse", status: fasthttp.StatusMethodNotAllowed},
		{name: "bad json", method: fasthttp.MethodPost, path: "/upper", body: `{"text":`, status: fasthttp.StatusBadRequest},
		{name: "unknown operation", method: fasthttp.MethodPost, path: "/apply", body: `{"text":"x","operations":["shout"]}`, status: fasthttp.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := doRequest(h, tc.method, tc.path, tc.body)
			if ctx.Response.StatusCode() != tc.status {
				t.Errorf("expected %d, got %d", tc.status, ctx.Response.StatusCode())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	ctx := doRequest(h, fasthttp.MethodGet, "/health", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	if ct := string(ctx.Response.Header.ContentType()); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, WithRateLimit(0.001, 1))

	first := doRequest(h, fasthttp.MethodPost, "/reverse", `{"text":"ab"}`)
	if first.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Response.StatusCode())
	}

	second := doRequest(h, fasthttp.MethodPost, "/reverse", `{"text":"ab"}`)
	if second.Response.StatusCode() != fasthttp.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", second.Response.StatusCode())
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestHandleError(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "body too large", err: fasthttp.ErrBodyTooLarge, status: fasthttp.StatusRequestEntityTooLarge},
		{name: "timeout", err: timeoutError{}, status: fasthttp.StatusRequestTimeout},
		{name: "malformed", err: errors.New("cannot parse request line"), status: fasthttp.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &fasthttp.RequestCtx{}
			ctx.Init(&fasthttp.Request{}, nil, nil)
			h.HandleError(ctx, tc.err)

			if ctx.Response.StatusCode() != tc.status {
				t.Errorf("expected %d, got %d", tc.status, ctx.Response.StatusCode())
			}
			if ct := string(ctx.Response.Header.ContentType()); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestOversizedBodyOverListener(t *testing.T) {
	h := newTestHandler(t)

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{
		Handler:            h.HandleRequest,
		ErrorHandler:       h.HandleError,
		MaxRequestBodySize: 16,
	}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "within limit", body: `{"text":"ab"}`, status: fasthttp.StatusOK},
		{name: "over limit", body: `{"text":"` + strings.Repeat("a", 40) + `"}`, status: fasthttp.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := fasthttp.AcquireRequest()
			defer fasthttp.ReleaseRequest(req)
			resp := fasthttp.AcquireResponse()
			defer fasthttp.ReleaseResponse(resp)

			req.SetRequestURI("http://strproc/reverse")
			req.Header.SetMethod(fasthttp.MethodPost)
			req.SetBodyString(tc.body)

			if err := client.Do(req, resp); err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode() != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, resp.StatusCode(), resp.Body())
			}
			if ct := string(resp.Header.ContentType()); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}
			if tc.status != fasthttp.StatusOK {
				var errResp ErrorResponse
				if err := json.Unmarshal(resp.Body(), &errResp); err != nil {
					t.Fatalf("invalid error body %q: %v", resp.Body(), err)
				}
				if errResp.Error != "Request body too large" {
					t.Errorf("unexpected error message %q", errResp.Error)
				}
			}
		})
	}
}
