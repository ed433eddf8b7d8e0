// Package client talks to a keymaze solve server over its websocket.
package client

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/keymaze/model"
)

// ErrRemote wraps errors reported by the server for a request.
var ErrRemote = errors.New("remote solve failed")

// Client is one websocket session. It is not safe for concurrent use.
type Client struct {
	conn    *websocket.Conn
	Session string
	Version string
}

// Dial connects to url (e.g. ws://localhost:8080/solve) and waits for the
// session setup message.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c := &Client{conn: conn}
	msg, err := c.read(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if len(msg.Setup) == 0 {
		conn.Close()
		return nil, fmt.Errorf("expected setup message from %s", url)
	}
	c.Session = msg.Setup[0].Session
	c.Version = msg.Setup[0].Version
	log.WithField("session", c.Session).Debugf("connected to %s", url)
	return c, nil
}

// Solve sends one grid and waits for its answer.
func (c *Client) Solve(ctx context.Context, req model.ClientMessage) (model.Solution, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetWriteDeadline(time.Time{})
	}
	w, err := c.conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return model.Solution{}, fmt.Errorf("opening writer: %w", err)
	}
	if err := gob.NewEncoder(w).Encode(req); err != nil {
		w.Close()
		return model.Solution{}, fmt.Errorf("encoding request: %w", err)
	}
	if err := w.Close(); err != nil {
		return model.Solution{}, fmt.Errorf("sending request: %w", err)
	}

	msg, err := c.read(ctx)
	if err != nil {
		return model.Solution{}, err
	}
	if len(msg.Errors) > 0 {
		return model.Solution{}, fmt.Errorf("%w: %s", ErrRemote, strings.Join(msg.Errors, "; "))
	}
	if len(msg.Solutions) == 0 {
		return model.Solution{}, fmt.Errorf("%w: empty answer", ErrRemote)
	}
	return msg.Solutions[0], nil
}

func (c *Client) read(ctx context.Context) (model.ServerMessage, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}
	_, r, err := c.conn.NextReader()
	if err != nil {
		return model.ServerMessage{}, fmt.Errorf("reading message: %w", err)
	}
	var msg model.ServerMessage
	if err := gob.NewDecoder(r).Decode(&msg); err != nil {
		return model.ServerMessage{}, fmt.Errorf("decoding message: %w", err)
	}
	return msg, nil
}

// Close says goodbye to the server and drops the connection.
func (c *Client) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
