package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/macrokit/macrocli/types"
	"github.com/macrokit/macrocli/utils"
)

const (
	errTitleParseError    = "Parse error"
	errTitleInvalidReq    = "Invalid Request"
	errTitleMethodNotSupp = "Method not supported"

	errMsgParseError     = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC = "'jsonrpc' must be '2.0'"
	errMsgIDRequired     = "'id' field is required"
	errMsgMethodRequired = "'method' is required"
	errMsgTextOnly       = "only text messages accepted for requests"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// JSONRPCNotification is a server-initiated message with no id, used for
// event streaming to subscribed connections.
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// subscribers holds the WebSocket connections that asked for live recording
// and replay notifications.
var (
	subscribersMu sync.Mutex
	subscribers   = make(map[*wsConnection]struct{})
)

func subscribe(wsc *wsConnection) {
	subscribersMu.Lock()
	defer subscribersMu.Unlock()
	subscribers[wsc] = struct{}{}
}

func unsubscribe(wsc *wsConnection) {
	subscribersMu.Lock()
	defer subscribersMu.Unlock()
	delete(subscribers, wsc)
}

func broadcast(method string, params interface{}) {
	subscribersMu.Lock()
	conns := make([]*wsConnection, 0, len(subscribers))
	for wsc := range subscribers {
		conns = append(conns, wsc)
	}
	subscribersMu.Unlock()

	notification := JSONRPCNotification{JSONRPC: "2.0", Method: method, Params: params}
	for _, wsc := range conns {
		if err := wsc.sendJSON(notification); err != nil {
			utils.Verbose("dropping subscriber after write failure: %v", err)
			unsubscribe(wsc)
		}
	}
}

// PublishEvent streams a newly recorded event to subscribed connections.
func PublishEvent(ev *types.RecordedEvent) {
	broadcast("record.event", ev)
}

// PublishState streams a recording state transition to subscribed connections.
func PublishState(state types.RecordingState) {
	broadcast("record.state", map[string]interface{}{"state": state})
}

// PublishReplayStatus streams a replay lifecycle transition to subscribed
// connections.
func PublishReplayStatus(runID string, status, message string) {
	broadcast("replay.status", map[string]interface{}{
		"runId":   runID,
		"status":  status,
		"message": message,
	})
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

// NewWebSocketHandler returns the handler for the /ws endpoint.
func NewWebSocketHandler(enableCORS bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, enableCORS)
	})
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Verbose("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{conn: conn}
	defer unsubscribe(wsConn)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			wsConn.sendError(nil, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgTextOnly)
			continue
		}

		handleWSMessage(wsConn, message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

type rpcError struct {
	code    int
	message string
	data    string
}

func validateJSONRPCRequest(req JSONRPCRequest) *rpcError {
	if req.JSONRPC != "2.0" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC}
	}
	if req.ID == nil {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired}
	}
	if req.Method == "" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired}
	}
	return nil
}

func handleWSMessage(wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		wsConn.sendError(nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if rpcErr := validateJSONRPCRequest(req); rpcErr != nil {
		wsConn.sendError(req.ID, rpcErr.code, rpcErr.message, rpcErr.data)
		return
	}

	utils.Info("WebSocket Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handleWSMethodCall(wsConn, req)
}

func handleWSMethodCall(wsConn *wsConnection, req JSONRPCRequest) {
	// subscription management needs the connection itself, so it is handled
	// here rather than in the shared registry
	switch req.Method {
	case "events.subscribe":
		subscribe(wsConn)
		wsConn.sendResponse(req.ID, okResponse)
		return
	case "events.unsubscribe":
		unsubscribe(wsConn)
		wsConn.sendResponse(req.ID, okResponse)
		return
	}

	registry := GetMethodRegistry()
	handler, exists := registry[req.Method]
	if !exists {
		wsConn.sendError(req.ID, ErrCodeMethodNotFound, errTitleMethodNotSupp, req.Method+" not found")
		return
	}

	result, err := handler(req.Params)
	if err != nil {
		utils.Verbose("method %s failed: %v", req.Method, err)
		wsConn.sendError(req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	wsConn.sendResponse(req.ID, result)
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, code int, message string, data interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
