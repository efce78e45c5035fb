package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/subword/internal/logger"
	"github.com/samcharles93/subword/internal/tokenizer"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := tokenizer.DefaultConfig(tokenizer.BPE)
	cfg.MaxVocabSize = 14
	tr, err := tokenizer.NewTrainer(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	ctx := logger.WithContext(context.Background(), logger.Discard())
	tok, err := tr.Fit(ctx, []string{"low lower lowest newest widest"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	server := NewServer(tok, "")
	server.clock = func() time.Time { return time.Unix(1700000000, 0) }
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

func TestTokenizeAndDetokenize(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":"lowest widest"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("tokenize status: got %d body=%s", rec.Code, rec.Body.String())
	}
	tok := decodeBody[TokenizeResponse](t, rec)
	if !strings.HasPrefix(tok.ID, "tok_") || tok.Object != "tokenization" {
		t.Fatalf("unexpected envelope: %+v", tok)
	}
	if tok.Model != "bpe" || tok.Created != 1700000000 {
		t.Fatalf("unexpected model/created: %+v", tok)
	}
	m := tokenizer.DefaultBoundaryMarker
	want := []string{m, "lo", "w", "est", m, "w", "i", "d", "est"}
	if strings.Join(tok.Tokens, "|") != strings.Join(want, "|") || tok.Count != len(want) {
		t.Fatalf("tokens: got %q (count %d), want %q", tok.Tokens, tok.Count, want)
	}

	body, err := json.Marshal(DetokenizeRequest{Tokens: tok.Tokens})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec = doJSON(t, e, http.MethodPost, "/v1/detokenize", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("detokenize status: got %d body=%s", rec.Code, rec.Body.String())
	}
	detok := decodeBody[DetokenizeResponse](t, rec)
	if detok.Text != "lowest widest" || detok.Object != "detokenization" {
		t.Fatalf("unexpected detokenize response: %+v", detok)
	}
}

func TestTokenizeEmptyText(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":"   "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"tokens":[]`) {
		t.Fatalf("expected empty token array, got %s", rec.Body.String())
	}
}

func TestBadRequests(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	tests := []struct {
		name  string
		path  string
		body  string
		param string
	}{
		{"empty body", "/v1/tokenize", "", ""},
		{"malformed json", "/v1/tokenize", `{"text":`, ""},
		{"missing text", "/v1/tokenize", `{}`, "text"},
		{"wrong type", "/v1/tokenize", `{"text":3}`, ""},
		{"missing tokens", "/v1/detokenize", `{"text":"x"}`, "tokens"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
			}
			got := decodeBody[map[string]ResponseError](t, rec)["error"]
			if got.Type != "invalid_request_error" || got.Message == "" {
				t.Fatalf("unexpected error envelope: %+v", got)
			}
			if got.Param != tc.param {
				t.Fatalf("param: got %q want %q", got.Param, tc.param)
			}
		})
	}
}

func TestTokenizerInfo(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodGet, "/v1/tokenizer", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	info := decodeBody[TokenizerInfo](t, rec)
	if info.Model != "bpe" || info.Pretokenize != "whitespace" || info.Merges != 3 || info.VocabSize != 14 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Marker != tokenizer.DefaultBoundaryMarker {
		t.Fatalf("marker: got %q", info.Marker)
	}
}

func TestMergesPaging(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doJSON(t, e, http.MethodGet, "/v1/merges?offset=1&limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	page := decodeBody[MergeList](t, rec)
	if page.Total != 3 || page.Offset != 1 || !page.HasMore || len(page.Data) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Data[0] != (MergeEntry{Rank: 1, Pair: "es t", Symbol: "est"}) {
		t.Fatalf("unexpected entry: %+v", page.Data[0])
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/merges?offset=10", "")
	page = decodeBody[MergeList](t, rec)
	if len(page.Data) != 0 || page.HasMore || page.Offset != 3 {
		t.Fatalf("unexpected page past the end: %+v", page)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/merges?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: got %d", rec.Code)
	}
	if got := decodeBody[map[string]ResponseError](t, rec)["error"]; got.Param != "limit" {
		t.Fatalf("param: got %q want limit", got.Param)
	}
}

func TestInvalidRequestUnwraps(t *testing.T) {
	t.Parallel()

	err := invalidRequestf("limit", "%s is bad", "limit")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatal("expected invalid request error to unwrap to ErrInvalidRequest")
	}
	if err.Error() != "limit is bad" {
		t.Fatalf("message: got %q", err.Error())
	}
	if errors.Is(fmt.Errorf("read request body: %w", io.ErrUnexpectedEOF), ErrInvalidRequest) {
		t.Fatal("read failures must not be invalid requests")
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestBodyReadFailureIsServerError(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	for _, path := range []string{"/v1/tokenize", "/v1/detokenize"} {
		req := httptest.NewRequest(http.MethodPost, path, failingBody{})
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: status got %d body=%s", path, rec.Code, rec.Body.String())
		}
		got := decodeBody[map[string]ResponseError](t, rec)["error"]
		if got.Type != "server_error" || !strings.Contains(got.Message, "read request body") {
			t.Fatalf("%s: unexpected error envelope: %+v", path, got)
		}
	}
}
