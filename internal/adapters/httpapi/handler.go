package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/ports"
)

// Processor is the subset of the string processor the API needs.
type Processor interface {
	Apply(text string, ops ...domain.Operation) (string, error)
}

// Request is the body of every transformation endpoint. Operations is only
// read by /apply.
type Request struct {
	Text       string   `json:"text"`
	Operations []string `json:"operations,omitempty"`
}

// Response represents a transformation response
type Response struct {
	Operation      string `json:"operation"`
	Result         string `json:"result"`
	InputLength    int    `json:"input_length"`
	OutputLength   int    `json:"output_length"`
	ProcessingTime string `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler routes fasthttp requests to the processor.
type Handler struct {
	processor Processor
	logger    ports.Logger
	limiter   *rate.Limiter
}

// Option configures a Handler.
type Option func(*Handler)

// WithRateLimit enables a token bucket limiter shared by every request.
// Non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(h *Handler) {
		if rps > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// NewHandler creates a new API handler.
func NewHandler(processor Processor, logger ports.Logger, opts ...Option) *Handler {
	h := &Handler{processor: processor, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleRequest is the fasthttp request handler
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "StringProcessor")

	switch path := string(ctx.Path()); path {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/reverse":
		h.handleOperation(ctx, domain.Reverse)
	case "/upper":
		h.handleOperation(ctx, domain.ToUpper)
	case "/remove-spaces":
		h.handleOperation(ctx, domain.RemoveSpaces)
	case "/apply":
		h.handleApply(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// HandleError is the fasthttp error handler. It reports requests rejected
// before routing, such as bodies over MaxRequestBodySize, as JSON errors.
func (h *Handler) HandleError(ctx *fasthttp.RequestCtx, err error) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "StringProcessor")

	var smallBuffer *fasthttp.ErrSmallBuffer
	var netErr net.Error
	switch {
	case errors.Is(err, fasthttp.ErrBodyTooLarge):
		ctx.SetStatusCode(fasthttp.StatusRequestEntityTooLarge)
		h.writeJSONError(ctx, "Request body too large")
	case errors.As(err, &smallBuffer):
		ctx.SetStatusCode(fasthttp.StatusRequestHeaderFieldsTooLarge)
		h.writeJSONError(ctx, "Request headers too large")
	case errors.As(err, &netErr) && netErr.Timeout():
		ctx.SetStatusCode(fasthttp.StatusRequestTimeout)
		h.writeJSONError(ctx, "Request timeout")
	default:
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Error when parsing request")
	}

	h.logger.Warn("Request rejected",
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"error", err,
	)
}

func (h *Handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleOperation(ctx *fasthttp.RequestCtx, op domain.Operation) {
	req, ok := h.decode(ctx)
	if !ok {
		return
	}
	h.run(ctx, op.String(), req.Text, []domain.Operation{op})
}

func (h *Handler) handleApply(ctx *fasthttp.RequestCtx) {
	req, ok := h.decode(ctx)
	if !ok {
		return
	}

	ops := make([]domain.Operation, 0, len(req.Operations))
	for _, name := range req.Operations {
		op, err := domain.ParseOperation(name)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			h.writeJSONError(ctx, err.Error())
			return
		}
		ops = append(ops, op)
	}
	h.run(ctx, "apply", req.Text, ops)
}

// decode enforces method and rate limit and parses the body. It writes the
// error response itself and reports whether the caller should continue.
func (h *Handler) decode(ctx *fasthttp.RequestCtx) (Request, bool) {
	var req Request

	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return req, false
	}

	if h.limiter != nil && !h.limiter.Allow() {
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
		h.writeJSONError(ctx, "Rate limit exceeded")
		return req, false
	}

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) run(ctx *fasthttp.RequestCtx, name, text string, ops []domain.Operation) {
	start := time.Now()
	result, err := h.processor.Apply(text, ops...)
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownOperation) {
			status = fasthttp.StatusBadRequest
		}
		ctx.SetStatusCode(status)
		h.writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, Response{
		Operation:      name,
		Result:         result,
		InputLength:    len(text),
		OutputLength:   len(result),
		ProcessingTime: time.Since(start).String(),
	})
}

// writeJSONResponse writes a JSON response to the context
func (h *Handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *Handler) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}
