package editor

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
)

func dialSession(t *testing.T, r chi.Router, projectID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/projects/" + projectID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readFrame blocks until a frame of the wanted type arrives, skipping others.
func readFrame(t *testing.T, conn *websocket.Conn, wantType string) sessionResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var resp sessionResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("waiting for %q frame: %v", wantType, err)
		}
		if resp.Type == wantType {
			return resp
		}
	}
}

func TestSessionRejectsUnknownProject(t *testing.T) {
	_, r, _, _ := setupEditor(t, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/projects/nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected handshake failure for unknown project")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("expected 404 handshake response, got %+v", resp)
	}
}

func TestSessionEditTriggersPreview(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	conn := dialSession(t, r, p.ID)

	conn.WriteJSON(sessionRequest{
		Type:         "open_resource",
		ResourceType: "string",
		Path:         "res/values/strings.xml",
		Content:      `<string name="app_name">Demo</string>`,
	})
	state := readFrame(t, conn, "state")
	if state.State == nil || state.State.Resource == nil {
		t.Fatal("expected a state frame with an open resource")
	}

	conn.WriteJSON(sessionRequest{
		Type:    "edit",
		Content: `<string name="app_name">Renamed</string>`,
	})
	pv := readFrame(t, conn, "preview")
	if pv.Preview == nil || !pv.Preview.WellFormed {
		t.Fatalf("expected a well-formed preview, got %+v", pv.Preview)
	}
	found := false
	for _, f := range pv.Preview.Fragments {
		if f.Text == "Renamed" {
			found = true
		}
	}
	if !found {
		t.Errorf("preview does not reflect the edit: %+v", pv.Preview.Fragments)
	}
}

func TestSessionLoadsResourceFromDisk(t *testing.T) {
	_, r, store, ws := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})
	if err := ws.WriteResource(p.ID, "res/values/strings.xml", []byte(`<string name="title_main">Hello</string>`)); err != nil {
		t.Fatal(err)
	}

	conn := dialSession(t, r, p.ID)

	conn.WriteJSON(sessionRequest{
		Type:         "open_resource",
		ResourceType: "string",
		Path:         "res/values/strings.xml",
	})
	pv := readFrame(t, conn, "preview")
	found := false
	for _, f := range pv.Preview.Fragments {
		if f.Text == "Hello" && f.Kind == "title" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the on-disk content in the preview, got %+v", pv.Preview.Fragments)
	}
}

func TestSessionImagePreview(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	conn := dialSession(t, r, p.ID)

	conn.WriteJSON(sessionRequest{
		Type:         "open_resource",
		ResourceType: "image",
		Path:         "res/drawable/icon.png",
		Content:      "res/drawable/icon.png",
	})
	pv := readFrame(t, conn, "preview")
	if pv.Preview == nil || len(pv.Preview.Fragments) != 1 {
		t.Fatalf("expected one preview fragment, got %+v", pv.Preview)
	}
	frag := pv.Preview.Fragments[0]
	if frag.Kind != "image" {
		t.Errorf("expected an image fragment, got %s", frag.Kind)
	}
	if frag.Name != "res/drawable/icon.png" {
		t.Errorf("expected the path as the name, got %q", frag.Name)
	}
}

func TestSessionUnknownMessageType(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	conn := dialSession(t, r, p.ID)
	conn.WriteJSON(sessionRequest{Type: "bogus"})

	resp := readFrame(t, conn, "error")
	if !strings.Contains(resp.Message, "unknown message type") {
		t.Errorf("unexpected error message %q", resp.Message)
	}
}
