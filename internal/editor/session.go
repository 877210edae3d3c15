package editor

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/controller"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/preview"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// previewDebounce is the quiet interval before an edit triggers a preview
// recomputation.
const previewDebounce = 300 * time.Millisecond

// sessionRequest is the incoming WebSocket message format.
type sessionRequest struct {
	Type         string `json:"type"` // select_file | open_resource | edit | action | ack
	Name         string `json:"name,omitempty"`
	Size         int64  `json:"size,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	Path         string `json:"path,omitempty"`
	Content      string `json:"content,omitempty"`
	Kind         string `json:"kind,omitempty"`
}

// sessionResponse is the outgoing WebSocket message format.
type sessionResponse struct {
	Type      string            `json:"type"` // state | preview | notice | reload | error
	Level     string            `json:"level,omitempty"`
	Message   string            `json:"message,omitempty"`
	ProjectID string            `json:"project_id,omitempty"`
	State     *controller.State `json:"state,omitempty"`
	Preview   *preview.Result   `json:"preview,omitempty"`
}

// session owns one websocket connection and the controller runner behind it.
// All writes go through send, since effects fire from timer goroutines.
type session struct {
	conn   *websocket.Conn
	writeM sync.Mutex
	runner *controller.Runner
}

func (s *session) send(resp sessionResponse) {
	s.writeM.Lock()
	defer s.writeM.Unlock()
	if err := s.conn.WriteJSON(resp); err != nil {
		log.Printf("editor: websocket write: %v", err)
	}
}

// handleSession runs the live preview/sync session for one project.
func (e *Editor) handleSession(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	p, err := e.store.GetByID(r.Context(), projectID)
	if err != nil || p == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("editor: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{conn: conn}

	timeouts := map[controller.ActionKind]time.Duration{
		controller.ActionCompile: e.cfg.CompileTimeout(),
		controller.ActionSign:    e.cfg.SignTimeout(),
		controller.ActionTestAI:  e.cfg.AITestTimeout(),
	}

	sess.runner = controller.NewRunner(
		e.rules,
		invoker{editor: e},
		timeouts,
		previewDebounce,
		controller.NewState(projectID),
		controller.Effects{
			Preview: func(resType, content string) {
				result := preview.Render(resType, content)
				sess.send(sessionResponse{Type: "preview", Preview: &result})
			},
			Notify: func(level, message string) {
				sess.send(sessionResponse{Type: "notice", Level: level, Message: message})
			},
			Reload: func(id string) {
				sess.send(sessionResponse{Type: "reload", ProjectID: id})
			},
			StateChanged: func(st controller.State) {
				sess.send(sessionResponse{Type: "state", State: &st})
			},
		},
	)
	defer sess.runner.Close()

	for {
		var req sessionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("editor: websocket read: %v", err)
			}
			return
		}
		e.handleSessionMessage(sess, projectID, req)
	}
}

func (e *Editor) handleSessionMessage(sess *session, projectID string, req sessionRequest) {
	switch req.Type {
	case "select_file":
		sess.runner.Dispatch(controller.FileChosen{Name: req.Name, Size: req.Size})
	case "open_resource":
		content := req.Content
		if content == "" && req.Path != "" {
			loaded, err := e.ws.ReadResource(projectID, req.Path)
			if err != nil {
				sess.send(sessionResponse{Type: "error", Message: err.Error()})
				return
			}
			content = loaded
		}
		sess.runner.Dispatch(controller.ResourceOpened{
			Type:    req.ResourceType,
			Path:    req.Path,
			Content: content,
		})
	case "edit":
		sess.runner.Dispatch(controller.EditApplied{Content: req.Content})
	case "action":
		sess.runner.Dispatch(controller.ActionRequested{Kind: controller.ActionKind(req.Kind)})
	case "ack":
		sess.runner.Dispatch(controller.ActionAcknowledged{Kind: controller.ActionKind(req.Kind)})
	default:
		sess.send(sessionResponse{Type: "error", Message: "unknown message type: " + req.Type})
	}
}
