package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sealchat/internal/domain"
)

// HTTP is a domain.Transport that talks to a relay over JSON/HTTP.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relay at base. A nil hc uses
// http.DefaultClient.
func NewHTTP(base string, hc *http.Client) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

func (c *HTTP) RegisterPreKeyBundle(ctx context.Context, b domain.PreKeyBundle) error {
	return c.post(ctx, "/register", b)
}

func (c *HTTP) FetchPreKeyBundle(ctx context.Context, username domain.Username) (domain.PreKeyBundle, error) {
	var out domain.PreKeyBundle
	if err := c.getJSON(ctx, "/prekey/"+url.PathEscape(username.String()), &out); err != nil {
		return domain.PreKeyBundle{}, err
	}
	if out.Username != username {
		return domain.PreKeyBundle{}, fmt.Errorf("relay returned bundle for %q, want %q", out.Username, username)
	}
	return out, nil
}

func (c *HTTP) LatestMessageNumber(
	ctx context.Context,
	a, b domain.Username,
) (domain.MessageNumber, bool, error) {
	var out latestResponse
	if err := c.getJSON(ctx, conversationPath(a, b)+"/latest", &out); err != nil {
		return 0, false, err
	}
	return out.Number, out.Exists, nil
}

func (c *HTTP) HasAnyMessages(ctx context.Context, a, b domain.Username) (bool, error) {
	_, ok, err := c.LatestMessageNumber(ctx, a, b)
	return ok, err
}

func (c *HTTP) SendMessage(ctx context.Context, m domain.Message) error {
	return c.post(ctx, "/msg/"+url.PathEscape(m.To.String()), m)
}

func (c *HTTP) FetchMessages(
	ctx context.Context,
	username domain.Username,
	limit int,
) ([]domain.Message, error) {
	path := "/msg/" + url.PathEscape(username.String())
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeMessages(raw)
}

func (c *HTTP) AckMessages(ctx context.Context, username domain.Username, count int) error {
	return c.post(ctx, "/msg/"+url.PathEscape(username.String())+"/ack", ackRequest{Count: count})
}

func (c *HTTP) FetchHistory(ctx context.Context, a, b domain.Username) ([]domain.Message, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, conversationPath(a, b), &raw); err != nil {
		return nil, err
	}
	return decodeMessages(raw)
}

// decodeMessages accepts either a JSON array of messages or a single
// message object. Keys of the wrong length fail to decode.
func decodeMessages(raw json.RawMessage) ([]domain.Message, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var m domain.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		return []domain.Message{m}, nil
	}
	var msgs []domain.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

func conversationPath(a, b domain.Username) string {
	return "/conversations/" + url.PathEscape(a.String()) + "/" + url.PathEscape(b.String())
}

func (c *HTTP) post(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkStatus maps relay statuses back onto domain errors.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(body))
	req := resp.Request

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("relay %s %s: %w", req.Method, req.URL, domain.ErrUnknownUser)
	case http.StatusConflict:
		return fmt.Errorf("relay %s %s: %w", req.Method, req.URL, domain.ErrSequenceConflict)
	}
	return fmt.Errorf("relay %s %s: %s: %s", req.Method, req.URL, resp.Status, detail)
}

// Compile-time assertion that HTTP implements domain.Transport.
var _ domain.Transport = (*HTTP)(nil)
