package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const (
	DefaultBaseURL = "https://google.serper.dev"
	ToolName       = "search_the_internet"
)

var ErrEmptyQuery = errors.New("search query is empty")

// Input is the argument object the model sends when it calls the tool.
type Input struct {
	SearchQuery string `json:"search_query"`
}

type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

type AnswerBox struct {
	Title   string `json:"title"`
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

type KnowledgeGraph struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Response is the subset of the Serper search response the tool reads.
type Response struct {
	AnswerBox      *AnswerBox      `json:"answerBox,omitempty"`
	KnowledgeGraph *KnowledgeGraph `json:"knowledgeGraph,omitempty"`
	Organic        []OrganicResult `json:"organic"`
}

type Config struct {
	apiKey     string
	baseURL    string
	maxResults int
	country    string
	httpClient *http.Client
}

type Option func(*Config)

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.maxResults = n
	}
}

func WithCountry(country string) Option {
	return func(c *Config) {
		c.country = country
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

// SerperTool searches Google through serper.dev and formats the hits for an agent.
type SerperTool struct {
	Config
}

func NewSerperTool(apiKey string, opts ...Option) *SerperTool {
	ret := &SerperTool{Config: Config{apiKey: apiKey}}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.maxResults == 0 {
		ret.maxResults = 10
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

func (t *SerperTool) Name() string {
	return ToolName
}

func (t *SerperTool) Description() string {
	return "A tool that can be used to search the internet with a search_query. " +
		"Use it to ground nutrition and medical diet advice in current sources."
}

func (t *SerperTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"search_query": map[string]any{
				"type":        "string",
				"description": "Mandatory search query you want to use to search the internet",
			},
		},
		"required": []string{"search_query"},
	}
}

// Call decodes the model's JSON arguments, runs the search and returns formatted text.
func (t *SerperTool) Call(ctx context.Context, arguments string) (string, error) {
	var in Input
	if err := json.Unmarshal([]byte(arguments), &in); err != nil {
		return "", fmt.Errorf("invalid %s arguments: %w", ToolName, err)
	}
	resp, err := t.Search(ctx, in.SearchQuery)
	if err != nil {
		return "", err
	}
	return resp.Format(t.maxResults), nil
}

// Search runs one query against the Serper API.
func (t *SerperTool) Search(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	payload := map[string]any{"q": query, "num": t.maxResults}
	if t.country != "" {
		payload["gl"] = t.country
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-API-KEY", t.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Printf("SerperTool.Search(): query=%q", query)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying serper: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("non-200 response from serper: %d %s", httpResp.StatusCode, strings.TrimSpace(string(b)))
	}

	var searchResponse Response
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}
	return &searchResponse, nil
}

// Format renders at most n organic hits, after the answer box and knowledge graph.
func (r *Response) Format(n int) string {
	var b strings.Builder
	if ab := r.AnswerBox; ab != nil {
		answer := ab.Answer
		if answer == "" {
			answer = ab.Snippet
		}
		fmt.Fprintf(&b, "Answer: %s\n---\n", answer)
	}
	if kg := r.KnowledgeGraph; kg != nil && kg.Description != "" {
		fmt.Fprintf(&b, "%s (%s): %s\n---\n", kg.Title, kg.Type, kg.Description)
	}
	for i, item := range r.Organic {
		if i >= n {
			break
		}
		fmt.Fprintf(&b, "Title: %s\nLink: %s\nSnippet: %s\n---\n", item.Title, item.Link, item.Snippet)
	}
	if b.Len() == 0 {
		return "No search results found."
	}
	return strings.TrimSuffix(b.String(), "---\n")
}
