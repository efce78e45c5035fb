package api

type TokenizeRequest struct {
	Text *string `json:"text"`
}

type TokenizeResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Tokens  []string `json:"tokens"`
	Count   int      `json:"count"`
}

type DetokenizeRequest struct {
	Tokens []string `json:"tokens"`
}

type DetokenizeResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Text    string `json:"text"`
}

type TokenizerInfo struct {
	Object      string `json:"object"`
	Model       string `json:"model"`
	Marker      string `json:"marker"`
	Pretokenize string `json:"pretokenize"`
	Merges      int    `json:"merges"`
	VocabSize   int    `json:"vocab_size"`
}

type MergeEntry struct {
	Rank   int    `json:"rank"`
	Pair   string `json:"pair"`
	Symbol string `json:"symbol"`
}

type MergeList struct {
	Object  string       `json:"object"`
	Data    []MergeEntry `json:"data"`
	Offset  int          `json:"offset"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
