package server

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ai-gateway/chat-relay/internal/metrics"
	"github.com/ai-gateway/chat-relay/internal/middleware"
	"github.com/ai-gateway/chat-relay/internal/relay"
)

const (
	// StreamHeader tells data-stream clients which protocol version the body follows.
	StreamHeader  = "x-vercel-ai-data-stream"
	StreamVersion = "v1"

	// StreamErrorTrailer carries the error code of a stream that failed after
	// the response headers were sent.
	StreamErrorTrailer = "X-Stream-Error"

	outcomeCanceled = "canceled"
)

func (s *Server) ask(c *gin.Context) {
	var req relay.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, relay.InvalidInput(), err)
		return
	}
	if err := s.guards.CheckMessages(req.Messages); err != nil {
		s.fail(c, relay.InvalidInput(), err)
		return
	}

	stream := s.cfg.Stream
	if req.Stream != nil {
		stream = *req.Stream
	}
	if stream {
		s.askStream(c, req.Messages)
		return
	}

	resp, err := s.relay.Complete(c.Request.Context(), req.Messages)
	if err != nil {
		s.fail(c, relay.Classify(err), err)
		return
	}
	s.requests.Record(metrics.OutcomeOK)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) askStream(c *gin.Context, messages []relay.Message) {
	frags, err := s.relay.Open(c.Request.Context(), messages)
	if err != nil {
		s.fail(c, relay.Classify(err), err)
		return
	}
	defer frags.Close()

	h := c.Writer.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set(StreamHeader, StreamVersion)
	h.Set("Trailer", StreamErrorTrailer)
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		frag, err := frags.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if c.Request.Context().Err() != nil {
				log.Printf("request %s: client went away mid-stream: %v", middleware.GetRequestID(c), err)
				s.requests.Record(outcomeCanceled)
				return
			}
			cat := relay.Classify(err)
			log.Printf("ERROR: request %s: stream aborted (%s): %v", middleware.GetRequestID(c), cat.Code, err)
			s.requests.Record(cat.Code)
			h.Set(StreamErrorTrailer, cat.Code)
			return
		}
		if _, err := io.WriteString(c.Writer, frag); err != nil {
			log.Printf("request %s: write fragment: %v", middleware.GetRequestID(c), err)
			s.requests.Record(outcomeCanceled)
			return
		}
		c.Writer.Flush()
	}
	s.requests.Record(metrics.OutcomeOK)
}

// fail logs err and answers with the structured error body for cat.
func (s *Server) fail(c *gin.Context, cat relay.Category, err error) {
	log.Printf("ERROR: request %s: %s: %v", middleware.GetRequestID(c), cat.Code, err)
	s.requests.Record(cat.Code)
	c.JSON(cat.Status, relay.ErrorResponse(cat, err))
}
