// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package github commits uploaded files to a source repository through the
// GitHub contents API and builds the raw URLs they are served from.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
)

// DefaultRawBase serves committed files over plain HTTPS.
const DefaultRawBase = "https://raw.githubusercontent.com"

// Client commits files to one repository branch.
type Client struct {
	gh      *gh.Client
	owner   string
	repo    string
	branch  string
	rawBase string
}

// RejectedError is returned when GitHub answers the commit with an error
// status. Message carries the provider's explanation.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("github rejected commit (%d): %s", e.Status, e.Message)
}

// New creates a client for owner/repo. Returns (nil, nil) if the token,
// owner or repo are empty, allowing the app to start without it. apiURL
// overrides the API root, e.g. for GitHub Enterprise; branch defaults to
// "main".
func New(token, owner, repo, branch, apiURL string) (*Client, error) {
	if token == "" || owner == "" || repo == "" {
		return nil, nil
	}
	if branch == "" {
		branch = "main"
	}

	client := gh.NewClient(&http.Client{Timeout: 30 * time.Second}).WithAuthToken(token)
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("github api url: %w", err)
		}
		client.BaseURL = base
	}

	return &Client{
		gh:      client,
		owner:   owner,
		repo:    repo,
		branch:  branch,
		rawBase: DefaultRawBase,
	}, nil
}

// Branch returns the branch commits are made on.
func (c *Client) Branch() string {
	return c.branch
}

// CommitFile creates path with content on the configured branch.
func (c *Client) CommitFile(ctx context.Context, path string, content []byte, message string) error {
	_, _, err := c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
		Branch:  gh.String(c.branch),
	})
	if err == nil {
		slog.Info("github file committed", "repo", c.owner+"/"+c.repo, "path", path, "bytes", len(content))
		return nil
	}

	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		status := 0
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		msg := errResp.Message
		for _, e := range errResp.Errors {
			if e.Message != "" {
				msg += "; " + e.Message
			}
		}
		return &RejectedError{Status: status, Message: msg}
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &RejectedError{Status: http.StatusForbidden, Message: rateErr.Message}
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RejectedError{Status: http.StatusForbidden, Message: abuseErr.Message}
	}
	return fmt.Errorf("github commit %s: %w", path, err)
}

// RawURL returns the URL path is served from once committed.
func (c *Client) RawURL(path string) string {
	return c.rawBase + "/" + c.owner + "/" + c.repo + "/" + c.branch + "/" + path
}
