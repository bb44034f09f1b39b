package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
)

var _ algorithm.Remote = (*Client)(nil)

// Client talks to a Server. It implements algorithm.Remote.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// List returns the metadata of every published algorithm.
func (c *Client) List(ctx context.Context) ([]*domain.Record, error) {
	var recs []*domain.Record
	if err := c.do(ctx, http.MethodGet, "/algorithms", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Client) Check(ctx context.Context, remoteID int64) (*domain.Record, error) {
	var rec domain.Record
	if err := c.do(ctx, http.MethodGet, algorithmPath(remoteID)+"/check", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Download(ctx context.Context, remoteID int64) (*domain.Record, error) {
	var rec domain.Record
	if err := c.do(ctx, http.MethodGet, algorithmPath(remoteID), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upload publishes rec. A record with a remote ID replaces that entry.
func (c *Client) Upload(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	method, path := http.MethodPost, "/algorithms"
	if rec.RemoteID != 0 {
		method, path = http.MethodPut, algorithmPath(rec.RemoteID)
	}
	var stored domain.Record
	if err := c.do(ctx, method, path, rec, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Run executes a published algorithm on the server.
func (c *Client) Run(ctx context.Context, remoteID int64, values map[string]string) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := c.do(ctx, http.MethodPost, algorithmPath(remoteID)+"/run", RunRequest{Values: values}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Lines returns the editing view of a published algorithm.
func (c *Client) Lines(ctx context.Context, remoteID int64) (*LinesResponse, error) {
	var lines LinesResponse
	if err := c.do(ctx, http.MethodGet, algorithmPath(remoteID)+"/lines", nil, &lines); err != nil {
		return nil, err
	}
	return &lines, nil
}

func algorithmPath(id int64) string {
	return "/algorithms/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrAlgorithmNotFound)
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: invalid response: %w", method, path, err)
	}
	return nil
}
