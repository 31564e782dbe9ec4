package server

import (
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NightBlaze752/openai-nim-proxy/internal/metrics"
	"github.com/NightBlaze752/openai-nim-proxy/internal/models"
	"github.com/NightBlaze752/openai-nim-proxy/internal/sse"
	"github.com/NightBlaze752/openai-nim-proxy/internal/translator"
)

// handleChatCompletions validates the inbound request, augments it for
// the upstream service and routes the response through the streaming or
// non-streaming translation path.
func (s *Server) handleChatCompletions(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.rejectRequest(c, "invalid JSON payload: "+err.Error())
		return
	}

	model, ok := body["model"].(string)
	if !ok || model == "" {
		s.rejectRequest(c, "model is required")
		return
	}
	messages, ok := body["messages"].([]any)
	if !ok || len(messages) == 0 {
		s.rejectRequest(c, "messages must be a non-empty array")
		return
	}

	resolved := s.cfg.ResolveModel(model)
	display := s.cfg.DisplayReasoning(resolved)
	stream, _ := body["stream"].(bool)
	payload := translator.BuildUpstreamBody(body, resolved, s.cfg)

	s.logger.Debug("Proxying request: model=%s resolved=%s stream=%v display=%v",
		model, resolved, stream, display)

	resp, err := s.upstream.CreateChatCompletion(c.Request.Context(), payload)
	if err != nil {
		s.logger.Error("Upstream request failed: %v", err)
		metrics.UpstreamErrors.WithLabelValues("transport").Inc()
		metrics.RequestsTotal.WithLabelValues(mode(stream), "error").Inc()
		c.JSON(http.StatusInternalServerError,
			models.NewErrorResponse(err.Error(), http.StatusInternalServerError))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.forwardUpstreamError(c, resp, stream)
		return
	}

	if stream {
		s.streamResponse(c, resp.Body, model, display)
		metrics.RequestsTotal.WithLabelValues("stream", "ok").Inc()
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("transport").Inc()
		metrics.RequestsTotal.WithLabelValues("unary", "error").Inc()
		c.JSON(http.StatusInternalServerError, translator.NormalizeUpstreamError(0, nil))
		return
	}
	translated, err := translator.TranslateResponse(data, model, display,
		s.cfg.Reasoning.OpenTag, s.cfg.Reasoning.CloseTag)
	if err != nil {
		s.logger.Error("Failed to parse upstream response: %v", err)
		metrics.UpstreamErrors.WithLabelValues("failure").Inc()
		metrics.RequestsTotal.WithLabelValues("unary", "error").Inc()
		c.JSON(http.StatusInternalServerError, translator.NormalizeUpstreamError(0, data))
		return
	}

	metrics.RequestsTotal.WithLabelValues("unary", "ok").Inc()
	c.JSON(http.StatusOK, translated)
}

// forwardUpstreamError handles 4xx and 5xx upstream statuses: client
// errors are forwarded verbatim, server errors are normalized into the
// downstream error envelope.
func (s *Server) forwardUpstreamError(c *gin.Context, resp *http.Response, stream bool) {
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusInternalServerError {
		metrics.UpstreamErrors.WithLabelValues("rejection").Inc()
		metrics.RequestsTotal.WithLabelValues(mode(stream), "rejected").Inc()
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(resp.StatusCode, contentType, data)
		return
	}

	metrics.UpstreamErrors.WithLabelValues("failure").Inc()
	metrics.RequestsTotal.WithLabelValues(mode(stream), "error").Inc()
	c.JSON(resp.StatusCode, translator.NormalizeUpstreamError(resp.StatusCode, data))
}

// streamResponse pumps upstream frames through a translation session,
// writing each resulting event downstream as it is produced. A
// transport failure mid-stream ends the response without an error
// envelope; the protocol has no mid-stream error frame.
func (s *Server) streamResponse(c *gin.Context, upstreamBody io.Reader, clientModel string, display bool) {
	metrics.StreamSessions.Inc()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	session := translator.NewStreamSession(clientModel, display,
		s.cfg.Reasoning.OpenTag, s.cfg.Reasoning.CloseTag)
	reader := sse.NewReader(upstreamBody)
	ctx := c.Request.Context()

	for !session.Closed() {
		frame, err := reader.Next()
		if err != nil {
			if err != io.EOF {
				s.logger.Warn("Upstream stream ended abnormally: %v", err)
			}
			break
		}
		for _, event := range session.HandleFrame(frame) {
			if _, err := io.WriteString(c.Writer, event); err != nil {
				return
			}
		}
		c.Writer.Flush()

		select {
		case <-ctx.Done():
			// Client went away; the cancelled request context also
			// tears down the upstream read.
			return
		default:
		}
	}

	if session.ReasoningEmitted() {
		metrics.ReasoningBlocks.Inc()
	}
}

// handleModels lists the configured model aliases in the downstream
// protocol's model-list form.
func (s *Server) handleModels(c *gin.Context) {
	aliases := make([]string, 0, len(s.cfg.ModelAliases))
	for alias := range s.cfg.ModelAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	created := time.Now().Unix()
	data := make([]gin.H, 0, len(aliases))
	for _, alias := range aliases {
		data = append(data, gin.H{
			"id":       alias,
			"object":   "model",
			"created":  created,
			"owned_by": "openai-nim-proxy",
		})
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": data})
}

func (s *Server) rejectRequest(c *gin.Context, message string) {
	metrics.RequestsTotal.WithLabelValues("unary", "rejected").Inc()
	c.JSON(http.StatusBadRequest, models.NewErrorResponse(message, http.StatusBadRequest))
}

func mode(stream bool) string {
	if stream {
		return "stream"
	}
	return "unary"
}
