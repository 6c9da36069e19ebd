/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tschaefer/flowconsole/internal/settarget"
)

const (
	basePath   = "/api/v1"
	eventsPath = basePath + "/events"
	setsPath   = basePath + "/sets"
	rulesPath  = basePath + "/rules"
)

var ErrReservedSetID = errors.New("reserved set id must not be sent to the backend")

// Error is a failed backend request. Message is meant for the user.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message returns the text to show the user for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprint(err)
}

type Set struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Rule is either a domain or one or more network prefixes.
type Rule struct {
	SetID    string   `json:"set_id"`
	Domain   string   `json:"domain,omitempty"`
	Prefixes []string `json:"prefixes,omitempty"`
}

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(address string) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend address scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend address: %q", address)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		BaseURL: u,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// StreamURL returns the websocket address of the event stream.
func (c *Client) StreamURL() string {
	u := *c.BaseURL
	u.Scheme = "ws"
	if c.BaseURL.Scheme == "https" {
		u.Scheme = "wss"
	}
	u.Path = u.Path + eventsPath
	return u.String()
}

func (c *Client) Sets(ctx context.Context) ([]Set, error) {
	var sets []Set
	err := c.do(ctx, http.MethodGet, setsPath, nil, &sets)
	return sets, err
}

func (c *Client) CreateSet(ctx context.Context, name string) (Set, error) {
	var set Set
	body := map[string]any{"name": name, "enabled": true}
	err := c.do(ctx, http.MethodPost, setsPath, body, &set)
	return set, err
}

func (c *Client) UpdateSet(ctx context.Context, set Set) (Set, error) {
	if err := checkSetID(set.ID); err != nil {
		return Set{}, err
	}
	var updated Set
	err := c.do(ctx, http.MethodPut, setsPath+"/"+url.PathEscape(set.ID), set, &updated)
	return updated, err
}

func (c *Client) DeleteSet(ctx context.Context, id string) error {
	if err := checkSetID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, setsPath+"/"+url.PathEscape(id), nil, nil)
}

// ReorderSets submits the complete set order.
func (c *Client) ReorderSets(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := checkSetID(id); err != nil {
			return err
		}
	}
	return c.do(ctx, http.MethodPut, setsPath+"/order", map[string][]string{"ids": ids}, nil)
}

func (c *Client) InsertRule(ctx context.Context, rule Rule) error {
	if err := checkSetID(rule.SetID); err != nil {
		return err
	}
	if rule.Domain == "" && len(rule.Prefixes) == 0 {
		return errors.New("rule needs a domain or a prefix")
	}
	return c.do(ctx, http.MethodPost, rulesPath, rule, nil)
}

// Promote inserts rule into setID. For the create marker the set named
// newName is created first and the rule goes into it. The returned id is
// set whenever the target set exists, also when the insert failed.
func (c *Client) Promote(ctx context.Context, setID, newName string, rule Rule) (string, error) {
	if setID == settarget.CreateSetID {
		set, err := c.CreateSet(ctx, newName)
		if err != nil {
			return "", err
		}
		slog.Debug("Created rule set.", "id", set.ID, "name", set.Name)
		setID = set.ID
	}

	// the id stays valid on a failed insert, the set exists by now
	rule.SetID = setID
	if err := c.InsertRule(ctx, rule); err != nil {
		return setID, err
	}
	return setID, nil
}

func checkSetID(id string) error {
	if id == settarget.CreateSetID {
		return ErrReservedSetID
	}
	if id == "" {
		return errors.New("set id must not be empty")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	u := *c.BaseURL
	u.Path = u.Path + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("Backend request.", "method", method, "url", u.String())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, data []byte) error {
	var structured struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &structured); err == nil {
		if structured.Message != "" {
			return &Error{Status: resp.StatusCode, Message: structured.Message}
		}
		if structured.Error != "" {
			return &Error{Status: resp.StatusCode, Message: structured.Error}
		}
	}

	msg := resp.Status
	if text := strings.TrimSpace(string(data)); text != "" {
		msg = fmt.Sprintf("%s: %s", resp.Status, text)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
