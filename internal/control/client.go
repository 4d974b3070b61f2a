package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jacksmith/wallsafe/internal/rotation"
)

// ErrNotRunning is returned by Client calls when no daemon is listening.
var ErrNotRunning = errors.New("control: daemon not running")

// Client talks to a daemon's control socket.
type Client struct {
	http *http.Client
}

// NewClient returns a client for the socket at path. Nothing is dialed
// until the first call.
func NewClient(path string) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", path)
		},
		DisableKeepAlives: true,
	}
	return &Client{http: &http.Client{Transport: transport, Timeout: 30 * time.Second}}
}

// Advance asks the daemon to show the next or previous wallpaper.
func (c *Client) Advance(ctx context.Context, dir rotation.Direction) (rotation.Selection, error) {
	path := "/next"
	if dir == rotation.Previous {
		path = "/prev"
	}
	var sel rotation.Selection
	err := c.do(ctx, http.MethodPost, path, &sel)
	return sel, err
}

// Delete asks the daemon to delete the wallpaper it is showing.
func (c *Client) Delete(ctx context.Context) (rotation.Deletion, error) {
	var del rotation.Deletion
	err := c.do(ctx, http.MethodPost, "/delete", &del)
	return del, err
}

// State returns the daemon's engine state.
func (c *Client) State(ctx context.Context) (rotation.State, error) {
	var st rotation.State
	err := c.do(ctx, http.MethodGet, "/state", &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	// The host is ignored by the unix dialer.
	req, err := http.NewRequestWithContext(ctx, method, "http://wallsafe"+path, nil)
	if err != nil {
		return fmt.Errorf("control: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return fmt.Errorf("%w: %v", ErrNotRunning, opErr.Err)
		}
		return fmt.Errorf("control: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			return fmt.Errorf("control: %s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("daemon: %s", body.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("control: decode %s response: %w", path, err)
	}
	return nil
}
