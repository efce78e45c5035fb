// Package api serves a trained tokenizer over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/subword/internal/tokenizer"
)

const (
	defaultMergeLimit = 100
	maxMergeLimit     = 1000
)

type Server struct {
	tok   *tokenizer.Tokenizer
	name  string
	clock func() time.Time
}

// NewServer serves tok. name identifies the tokenizer in responses and
// defaults to its model name.
func NewServer(tok *tokenizer.Tokenizer, name string) *Server {
	if name == "" {
		name = string(tok.Model())
	}
	return &Server{
		tok:   tok,
		name:  name,
		clock: time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/tokenize", s.handleTokenize)
	e.POST("/v1/detokenize", s.handleDetokenize)
	e.GET("/v1/tokenizer", s.handleTokenizer)
	e.GET("/v1/merges", s.handleMerges)
}

func (s *Server) handleTokenize(c *echo.Context) error {
	req, err := decodeJSON[TokenizeRequest](c.Request().Body)
	if err != nil {
		return writeFailure(c, err)
	}
	if req.Text == nil {
		return writeBadRequest(c, "text is required", "text")
	}
	tokens := s.tok.Tokenize(*req.Text)
	if tokens == nil {
		tokens = []string{}
	}
	return c.JSON(http.StatusOK, TokenizeResponse{
		ID:      newID("tok"),
		Object:  "tokenization",
		Created: s.clock().Unix(),
		Model:   s.name,
		Tokens:  tokens,
		Count:   len(tokens),
	})
}

func (s *Server) handleDetokenize(c *echo.Context) error {
	req, err := decodeJSON[DetokenizeRequest](c.Request().Body)
	if err != nil {
		return writeFailure(c, err)
	}
	if req.Tokens == nil {
		return writeBadRequest(c, "tokens is required", "tokens")
	}
	return c.JSON(http.StatusOK, DetokenizeResponse{
		ID:      newID("detok"),
		Object:  "detokenization",
		Created: s.clock().Unix(),
		Model:   s.name,
		Text:    s.tok.Detokenize(req.Tokens),
	})
}

func (s *Server) handleTokenizer(c *echo.Context) error {
	return c.JSON(http.StatusOK, TokenizerInfo{
		Object:      "tokenizer",
		Model:       string(s.tok.Model()),
		Marker:      s.tok.Marker(),
		Pretokenize: string(s.tok.Pretokenize()),
		Merges:      s.tok.NumMerges(),
		VocabSize:   s.tok.VocabSize(),
	})
}

func (s *Server) handleMerges(c *echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeFailure(c, err)
	}
	limit, err := queryInt(c, "limit", defaultMergeLimit)
	if err != nil {
		return writeFailure(c, err)
	}
	limit = min(limit, maxMergeLimit)

	merges := s.tok.Merges()
	start := min(offset, len(merges))
	end := min(start+limit, len(merges))
	data := make([]MergeEntry, 0, end-start)
	for i, m := range merges[start:end] {
		data = append(data, MergeEntry{
			Rank:   start + i,
			Pair:   m.Pair.String(),
			Symbol: m.Symbol,
		})
	}
	return c.JSON(http.StatusOK, MergeList{
		Object:  "list",
		Data:    data,
		Offset:  start,
		Total:   len(merges),
		HasMore: end < len(merges),
	})
}
