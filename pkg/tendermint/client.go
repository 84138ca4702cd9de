package tendermint

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iov-one/weave/errors"
)

// Client is a JSON-RPC client speaking to a tendermint node over its
// websocket endpoint, usually ws://host:26657/websocket.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	nextID int
}

func DialTendermint(uri string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "dial %s: %s", uri, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Event is a notification delivered for a subscription. Attributes are
// keyed by "<event type>.<attribute key>".
type Event struct {
	Query      string              `json:"query"`
	Attributes map[string][]string `json:"events"`
}

func (c *Client) send(method string, params interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	req := rpcRequest{JSONRPC: "2.0", ID: c.nextID, Method: method, Params: params}
	if err := c.conn.WriteJSON(req); err != nil {
		return errors.Wrapf(ErrConnection, "write %s: %s", method, err)
	}
	return nil
}

// Subscribe registers query on the node and passes every matching event to
// handle until handle returns true, handle fails or ctx is done.
func (c *Client) Subscribe(ctx context.Context, query string, handle func(Event) (bool, error)) error {
	if err := c.send("subscribe", map[string]string{"query": query}); err != nil {
		return err
	}

	// Unblock the reader once the context is done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(ErrConnection, "read: %s", err)
		}
		if resp.Error != nil {
			return errors.Wrapf(ErrFailedResponse, "%d %s: %s", resp.Error.Code, resp.Error.Message, resp.Error.Data)
		}
		if len(resp.Result) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(resp.Result, &ev); err != nil {
			return errors.Wrapf(ErrFailedResponse, "decode event: %s", err)
		}
		// The subscription acknowledgement carries an empty result.
		if len(ev.Attributes) == 0 {
			continue
		}

		stop, err := handle(ev)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}
