package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
)

// ErrWSClosed is returned by a closed or disconnected watcher.
var ErrWSClosed = errors.New("websocket closed")

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SubscribeTimeout bounds the wait for a subscription ID.
	SubscribeTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		PingInterval:     30 * time.Second,
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		SubscribeTimeout: 30 * time.Second,
	}
}

// SignatureWatcher implements WSClient using gorilla/websocket.
// A dropped connection fails every pending wait; callers fall back to polling.
type SignatureWatcher struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// subs maps subscription ID to its waiter
	subs   map[int64]*signatureSub
	subsMu sync.Mutex

	// pendingSubs maps request ID to channel waiting for subscription ID
	pendingSubs   map[uint64]chan subscribeReply
	pendingSubsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

type signatureSub struct {
	signature string
	ch        chan SignatureNotification
}

type subscribeReply struct {
	id  int64
	err error
}

// Compile-time interface check.
var _ WSClient = (*SignatureWatcher)(nil)

// NewSignatureWatcher connects to the endpoint and starts the reader.
func NewSignatureWatcher(ctx context.Context, endpoint string, config *WSClientConfig) (*SignatureWatcher, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	w := &SignatureWatcher{
		endpoint:    endpoint,
		config:      cfg,
		subs:        make(map[int64]*signatureSub),
		pendingSubs: make(map[uint64]chan subscribeReply),
		done:        make(chan struct{}),
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	w.conn = conn

	w.wg.Add(1)
	go w.readLoop()

	w.wg.Add(1)
	go w.pingLoop()

	return w, nil
}

// SubscribeSignature implements WSClient.
func (w *SignatureWatcher) SubscribeSignature(ctx context.Context, signature, commitment string) (<-chan SignatureNotification, error) {
	if w.closed.Load() {
		return nil, ErrWSClosed
	}
	if commitment == "" {
		commitment = CommitmentConfirmed
	}

	reqID := w.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]string{"commitment": commitment},
		},
	}

	confirmCh := make(chan subscribeReply, 1)
	w.pendingSubsMu.Lock()
	w.pendingSubs[reqID] = confirmCh
	w.pendingSubsMu.Unlock()

	w.connMu.Lock()
	w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	err := w.conn.WriteJSON(req)
	w.connMu.Unlock()

	if err != nil {
		w.dropPending(reqID)
		return nil, fmt.Errorf("write subscribe: %w", err)
	}

	var reply subscribeReply
	var ok bool
	select {
	case reply, ok = <-confirmCh:
		if !ok {
			return nil, ErrWSClosed
		}
	case <-time.After(w.config.SubscribeTimeout):
		w.dropPending(reqID)
		return nil, fmt.Errorf("subscription timeout after %s", w.config.SubscribeTimeout)
	case <-w.done:
		return nil, ErrWSClosed
	case <-ctx.Done():
		w.dropPending(reqID)
		return nil, ctx.Err()
	}
	if reply.err != nil {
		return nil, reply.err
	}

	// Buffered so the reader never blocks on a waiter that gave up.
	ch := make(chan SignatureNotification, 1)
	w.subsMu.Lock()
	w.subs[reply.id] = &signatureSub{signature: signature, ch: ch}
	w.subsMu.Unlock()

	return ch, nil
}

func (w *SignatureWatcher) dropPending(reqID uint64) {
	w.pendingSubsMu.Lock()
	delete(w.pendingSubs, reqID)
	w.pendingSubsMu.Unlock()
}

// Close closes the WebSocket connection.
func (w *SignatureWatcher) Close() error {
	if w.closed.Swap(true) {
		return nil // Already closed
	}

	close(w.done)

	w.connMu.Lock()
	w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	w.conn.Close()
	w.connMu.Unlock()

	w.wg.Wait()
	w.failAll()
	return nil
}

// failAll closes every waiter so callers stop blocking.
func (w *SignatureWatcher) failAll() {
	w.subsMu.Lock()
	for id, sub := range w.subs {
		close(sub.ch)
		delete(w.subs, id)
	}
	w.subsMu.Unlock()

	w.pendingSubsMu.Lock()
	for id, ch := range w.pendingSubs {
		close(ch)
		delete(w.pendingSubs, id)
	}
	w.pendingSubsMu.Unlock()
}

// readLoop reads messages from WebSocket and dispatches to subscribers.
func (w *SignatureWatcher) readLoop() {
	defer w.wg.Done()

	for {
		w.conn.SetReadDeadline(time.Now().Add(w.config.ReadTimeout))
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			if !w.closed.Load() {
				logging.RPC.Debug().Err(err).Str("endpoint", w.endpoint).Msg("Signature watcher disconnected")
				w.failAll()
			}
			return
		}

		start := time.Now()
		w.handleMessage(message)
		observability.DefaultMetrics.RPCCallLatency.WithLabelValues("signatureNotification").Observe(time.Since(start).Seconds())
	}
}

// handleMessage processes incoming WebSocket message.
func (w *SignatureWatcher) handleMessage(message []byte) {
	var env wsEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return
	}

	switch {
	case env.Method == "signatureNotification" && env.Params != nil:
		w.handleSignatureNotification(env.Params)
	case env.ID != nil && env.Error != nil:
		w.replyPending(*env.ID, subscribeReply{err: env.Error})
	case env.ID != nil && len(env.Result) > 0:
		var subID int64
		if err := json.Unmarshal(env.Result, &subID); err != nil {
			w.replyPending(*env.ID, subscribeReply{err: fmt.Errorf("unmarshal subscription id: %w", err)})
			return
		}
		w.replyPending(*env.ID, subscribeReply{id: subID})
	}
}

func (w *SignatureWatcher) replyPending(reqID uint64, reply subscribeReply) {
	w.pendingSubsMu.Lock()
	ch, ok := w.pendingSubs[reqID]
	if ok {
		delete(w.pendingSubs, reqID)
	}
	w.pendingSubsMu.Unlock()

	if ok {
		ch <- reply
	}
}

// handleSignatureNotification delivers the single notification of a subscription.
// The node cancels signature subscriptions after notifying.
func (w *SignatureWatcher) handleSignatureNotification(params *wsNotificationParams) {
	w.subsMu.Lock()
	sub, ok := w.subs[params.Subscription]
	if ok {
		delete(w.subs, params.Subscription)
	}
	w.subsMu.Unlock()
	if !ok {
		return
	}

	notif := SignatureNotification{
		Signature: sub.signature,
		Err:       params.Result.Value.Err,
	}
	if params.Result.Context != nil {
		notif.Slot = params.Result.Context.Slot
	}
	sub.ch <- notif
	close(sub.ch)
}

// pingLoop sends periodic ping frames to keep connection alive.
func (w *SignatureWatcher) pingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.connMu.Lock()
			w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
			// A dead connection surfaces as a read error.
			_ = w.conn.WriteMessage(websocket.PingMessage, nil)
			w.connMu.Unlock()
		}
	}
}

// WSConfirmer waits for confirmation over signatureSubscribe and falls back to
// polling when the socket cannot be used.
type WSConfirmer struct {
	// Endpoint overrides the websocket URL derived from the RPC endpoint.
	Endpoint   string
	Commitment string
	Timeout    time.Duration
	Config     *WSClientConfig
	Fallback   *PollConfirmer
}

// NewWSConfirmer returns a WSConfirmer with defaults.
func NewWSConfirmer() *WSConfirmer {
	return &WSConfirmer{
		Commitment: CommitmentConfirmed,
		Timeout:    DefaultConfirmTimeout,
		Fallback:   NewPollConfirmer(),
	}
}

// Confirm implements Confirmer.
func (c *WSConfirmer) Confirm(ctx context.Context, client RPCClient, endpoint, signature string) error {
	start := time.Now()
	err := c.confirm(ctx, client, endpoint, signature)
	if errors.Is(err, ErrWSClosed) || errors.Is(err, errWSUnavailable) {
		logging.RPC.Debug().Err(err).Str("signature", signature).Msg("Falling back to polling confirmation")
		return c.fallback().Confirm(ctx, client, endpoint, signature)
	}
	if err == nil {
		observability.RecordConfirmation("ws", time.Since(start).Seconds())
	}
	return err
}

func (c *WSConfirmer) fallback() *PollConfirmer {
	if c.Fallback != nil {
		return c.Fallback
	}
	p := NewPollConfirmer()
	if c.Commitment != "" {
		p.Commitment = c.Commitment
	}
	return p
}

func (c *WSConfirmer) commitment() string {
	if c.Commitment == "" {
		return CommitmentConfirmed
	}
	return c.Commitment
}

var errWSUnavailable = errors.New("websocket unavailable")

func (c *WSConfirmer) confirm(ctx context.Context, client RPCClient, endpoint, signature string) error {
	commitment := c.commitment()
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wsURL := c.Endpoint
	if wsURL == "" {
		derived, err := WSEndpoint(endpoint)
		if err != nil {
			return fmt.Errorf("%w: %v", errWSUnavailable, err)
		}
		wsURL = derived
	}
	watcher, err := NewSignatureWatcher(ctx, wsURL, c.Config)
	if err != nil {
		return fmt.Errorf("%w: %v", errWSUnavailable, err)
	}
	defer watcher.Close()

	ch, err := watcher.SubscribeSignature(ctx, signature, commitment)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrConfirmationTimeout, signature)
		}
		return fmt.Errorf("%w: %v", errWSUnavailable, err)
	}

	// The signature may have landed before the subscription existed.
	if statuses, err := client.GetSignatureStatuses(ctx, signature); err == nil && len(statuses) > 0 {
		if done, err := checkStatus(statuses[0], commitment); done {
			return err
		}
	}

	select {
	case notif, ok := <-ch:
		if !ok {
			return ErrWSClosed
		}
		if notif.Err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, notif.Err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s not %s after %s", ErrConfirmationTimeout, signature, commitment, timeout)
	}
}

// WebSocket message types

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsEnvelope struct {
	JSONRPC string                `json:"jsonrpc"`
	ID      *uint64               `json:"id,omitempty"`
	Result  json.RawMessage       `json:"result,omitempty"`
	Error   *RPCError             `json:"error,omitempty"`
	Method  string                `json:"method,omitempty"`
	Params  *wsNotificationParams `json:"params,omitempty"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Context *wsContext       `json:"context"`
	Value   wsSignatureValue `json:"value"`
}

type wsContext struct {
	Slot uint64 `json:"slot"`
}

type wsSignatureValue struct {
	Err interface{} `json:"err"`
}
