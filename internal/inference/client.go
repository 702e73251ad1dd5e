// Package inference asks a hosted question-answering model whether a
// description satisfies the operator's education and experience
// requirements. Calls are synchronous, one per posting.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co"
	defaultModel   = "deepset/roberta-base-squad2"
)

type Config struct {
	BaseURL string
	Model   string
	Token   string

	// DegreeVariations are the substrings accepted as evidence of the
	// required education category.
	DegreeVariations []string
}

type Client struct {
	hc  *http.Client
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if len(cfg.DegreeVariations) == 0 {
		cfg.DegreeVariations = []string{"bachelor", "bachelor's", "bs ", "b.s ", " bs", " b.s"}
	}
	return &Client{
		hc:  &http.Client{Timeout: 30 * time.Second},
		cfg: cfg,
	}
}

type qaRequest struct {
	Inputs struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	} `json:"inputs"`
}

type qaResponse struct {
	Answer string `json:"answer"`
}

// ask runs one question against the description. Note the model-warmup
// header: the hosted endpoint cold-starts small models.
func (c *Client) ask(ctx context.Context, question, description string) (string, error) {
	var reqBody qaRequest
	reqBody.Inputs.Question = question
	reqBody.Inputs.Context = description

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/models/%s", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-wait-for-model", "true")
	req.Header.Set("x-use-cache", "false")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return "", fmt.Errorf("inference status %d: %s", res.StatusCode, string(body))
	}

	var out qaResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("inference decode: %w", err)
	}
	return out.Answer, nil
}
