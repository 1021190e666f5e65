package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindcheck/internal/model"
	"mindcheck/internal/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToEverySocketOfClient(t *testing.T) {
	hub := NewHub(nil, nil)
	defer hub.Close()

	a := &Connection{ClientID: "c1", Send: make(chan []byte, 4)}
	b := &Connection{ClientID: "c1", Send: make(chan []byte, 4)}
	other := &Connection{ClientID: "c2", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.Connections("c1") == 2 }, time.Second, 5*time.Millisecond)

	hub.SendToClient("c1", "analysis_step", model.AnalysisStep{Step: 1, Total: 3})

	for _, conn := range []*Connection{a, b} {
		select {
		case data := <-conn.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, MsgAnalysisStep, msg.Type)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, other.Send)

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.Connections("c1") == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)
}

func TestAnalysisWS(t *testing.T) {
	identity := service.NewIdentityService("secret", time.Hour)
	hub := NewHub(nil, nil)
	defer hub.Close()
	h := NewHandler(hub, identity, []string{"*"}, nil)

	srv := httptest.NewServer(http.HandlerFunc(h.AnalysisWS))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bogus", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	client, err := identity.Issue()
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+client.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections(client.ClientID) == 1 }, time.Second, 5*time.Millisecond)
	hub.SendToClient(client.ClientID, "analysis_step", model.AnalysisStep{
		AssessmentType: "scl90",
		Step:           2,
		Total:          3,
		Message:        "正在生成心理健康评估...",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MsgAnalysisStep, msg.Type)

	var step model.AnalysisStep
	require.NoError(t, json.Unmarshal(msg.Payload, &step))
	assert.Equal(t, 2, step.Step)
	assert.Equal(t, "正在生成心理健康评估...", step.Message)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(r))
}
