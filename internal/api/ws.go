package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/session"
	"github.com/sprite-ai/codepad/internal/workspace"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // local editor; the token gate covers AI calls
	},
}

// WebSocket message types from client.
const (
	wsMsgSelectFile        = "select_file"
	wsMsgUpdateContent     = "update_content"
	wsMsgCreateFile        = "create_file"
	wsMsgApplySuggestion   = "apply_suggestion"
	wsMsgApplySuggestionAt = "apply_suggestion_at"
	wsMsgApplyCompletion   = "apply_completion"
	wsMsgApplyPatch        = "apply_patch"
	wsMsgComplete          = "complete"
	wsMsgAnalyze           = "analyze"
	wsMsgListFiles         = "list_files"
)

// WebSocket message types to client.
const (
	wsMsgFiles      = "files"
	wsMsgCompletion = "completion"
	wsMsgAnalysis   = "analysis"
	wsMsgStale      = "stale"
	wsMsgError      = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wsSelectFile struct {
	ID string `json:"id"`
}

type wsUpdateContent struct {
	Content string `json:"content"`
}

type wsCreateFile struct {
	Name     string `json:"name,omitempty"`
	Language string `json:"language,omitempty"`
}

type wsApplySuggestion struct {
	Text string `json:"text"`
}

// wsApplySuggestionAt either names a suggestion of the last analysis by
// index or carries one inline.
type wsApplySuggestionAt struct {
	Index      *int              `json:"index,omitempty"`
	Suggestion *model.Suggestion `json:"suggestion,omitempty"`
}

type wsApplyPatch struct {
	Patch string `json:"patch"`
}

type wsComplete struct {
	Prompt string `json:"prompt"`
}

// wsFilesResponse is the session state sent after every change.
type wsFilesResponse struct {
	Files    []model.File `json:"files"`
	ActiveID string       `json:"active_id,omitempty"`
}

type wsAnalysisResponse struct {
	analyzeResponse
	FileID string `json:"file_id"`
	Seq    uint64 `json:"seq"`
}

type wsStaleResponse struct {
	Op  string `json:"op"`
	Seq uint64 `json:"seq"`
}

type wsErrorResponse struct {
	Message string `json:"message"`
	Op      string `json:"op,omitempty"`
}

// wsConn serializes writes; AI replies arrive from other goroutines.
type wsConn struct {
	conn *websocket.Conn
	log  *zap.Logger
	mu   sync.Mutex
}

func (c *wsConn) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.log.Error("ws marshal", zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		c.log.Debug("ws write", zap.Error(err))
	}
}

func (c *wsConn) sendError(op, msg string) {
	c.send(wsMsgError, wsErrorResponse{Message: msg, Op: op})
}

// editSession is one WebSocket client's workspace.
type editSession struct {
	conn *wsConn
	ws   *workspace.Workspace
	log  *zap.Logger

	ctx      context.Context
	inflight sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	if s.maxBody > 0 {
		conn.SetReadLimit(s.maxBody)
	}

	store := session.NewEmptyStore()
	if s.seed {
		store = session.NewStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := s.log.With(zap.String("remote", r.RemoteAddr))
	sess := &editSession{
		conn: &wsConn{conn: conn, log: log},
		ws: workspace.New(store, s.ai,
			workspace.WithLogger(log),
			workspace.WithMetrics(s.wsMetrics),
			workspace.WithIdentity(identity),
		),
		log: log,
		ctx: ctx,
	}
	defer func() {
		cancel()
		sess.inflight.Wait()
	}()

	sess.sendFiles()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.conn.sendError("", "invalid message format")
			continue
		}
		sess.dispatch(msg)
	}
}

func (e *editSession) dispatch(msg wsMessage) {
	store := e.ws.Store()

	switch msg.Type {
	case wsMsgSelectFile:
		var req wsSelectFile
		if !e.decode(msg, &req) {
			return
		}
		store.Select(req.ID)
		e.sendFiles()

	case wsMsgUpdateContent:
		var req wsUpdateContent
		if !e.decode(msg, &req) {
			return
		}
		store.UpdateActiveContent(req.Content)
		e.sendFiles()

	case wsMsgCreateFile:
		var req wsCreateFile
		if len(msg.Data) > 0 && !e.decode(msg, &req) {
			return
		}
		store.CreateFile(req.Name, req.Language)
		e.sendFiles()

	case wsMsgApplySuggestion:
		var req wsApplySuggestion
		if !e.decode(msg, &req) {
			return
		}
		store.ApplySuggestion(req.Text)
		e.sendFiles()

	case wsMsgApplySuggestionAt:
		var req wsApplySuggestionAt
		if !e.decode(msg, &req) {
			return
		}
		switch {
		case req.Suggestion != nil:
			store.ApplySuggestionAt(*req.Suggestion)
		case req.Index != nil:
			if !e.ws.ApplyAnalysisSuggestion(*req.Index) {
				e.conn.sendError(msg.Type, "no such suggestion")
				return
			}
		default:
			e.conn.sendError(msg.Type, "index or suggestion is required")
			return
		}
		e.sendFiles()

	case wsMsgApplyCompletion:
		e.ws.ApplyCompletion()
		e.sendFiles()

	case wsMsgApplyPatch:
		var req wsApplyPatch
		if !e.decode(msg, &req) {
			return
		}
		if err := store.ApplyPatch(req.Patch); err != nil {
			e.conn.sendError(msg.Type, err.Error())
			return
		}
		e.sendFiles()

	case wsMsgComplete:
		var req wsComplete
		if !e.decode(msg, &req) {
			return
		}
		e.async(func() { e.complete(req.Prompt) })

	case wsMsgAnalyze:
		e.async(e.analyze)

	case wsMsgListFiles:
		e.sendFiles()

	default:
		e.conn.sendError("", "unknown message type: "+msg.Type)
	}
}

func (e *editSession) decode(msg wsMessage, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		e.conn.sendError(msg.Type, "invalid "+msg.Type+" data")
		return false
	}
	return true
}

// async runs an AI call without blocking the read loop, so completion and
// analysis may overlap.
func (e *editSession) async(fn func()) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		fn()
	}()
}

func (e *editSession) complete(prompt string) {
	res, err := e.ws.Complete(e.ctx, prompt)
	if err != nil {
		e.reportFailure(gateway.OpCompletion, res.Seq, err)
		return
	}
	e.conn.send(wsMsgCompletion, res)
}

func (e *editSession) analyze() {
	res, err := e.ws.Analyze(e.ctx)
	if err != nil {
		e.reportFailure(gateway.OpAnalysis, res.Seq, err)
		return
	}
	e.conn.send(wsMsgAnalysis, wsAnalysisResponse{
		analyzeResponse: newAnalyzeResponse(res.AnalysisResponse),
		FileID:          res.FileID,
		Seq:             res.Seq,
	})
}

func (e *editSession) reportFailure(op string, seq uint64, err error) {
	if errors.Is(err, workspace.ErrStale) {
		e.conn.send(wsMsgStale, wsStaleResponse{Op: op, Seq: seq})
		return
	}
	if e.ctx.Err() != nil {
		return
	}
	e.conn.sendError(op, failureMessage(err))
}

func (e *editSession) sendFiles() {
	store := e.ws.Store()
	e.conn.send(wsMsgFiles, wsFilesResponse{
		Files:    store.Files(),
		ActiveID: store.ActiveID(),
	})
}
