package streaming

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/util"
)

type (
	environment interface {
		global.Logging
		ListenToReleases(fun func(ev vaultledger.ReleaseEvent))
	}

	ws_server struct {
		environment
		mutex   sync.Mutex
		clients map[*websocket.Conn]struct{}
	}
)

const TraceTag = "streaming"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Run starts the websocket feed of release events on '/ws/releases'.
// Every successful tier trigger is pushed to all connected clients as a JSON
// ReleaseEventJSONAble message
func Run(addr string, env environment) {
	srv := &ws_server{
		environment: env,
		clients:     make(map[*websocket.Conn]struct{}),
	}

	env.ListenToReleases(srv.broadcast)

	http.HandleFunc("/ws/releases", srv.wsHandler)
	go func() {
		err := http.ListenAndServe(addr, nil)
		util.AssertNoError(err)
	}()
	env.Log().Infof("release event streaming started on %s", addr)
}

func (srv *ws_server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.Log().Warnf("streaming: failed to upgrade to websocket connection: %v", err)
		return
	}
	srv.Tracef(TraceTag, "client connected: %s", r.RemoteAddr)

	srv.mutex.Lock()
	srv.clients[conn] = struct{}{}
	srv.mutex.Unlock()
}

func (srv *ws_server) broadcast(ev vaultledger.ReleaseEvent) {
	data, err := json.Marshal(api.JSONAbleFromReleaseEvent(ev))
	if err != nil {
		srv.Log().Warnf("streaming: %v", err)
		return
	}

	srv.mutex.Lock()
	defer srv.mutex.Unlock()

	for conn := range srv.clients {
		if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
			srv.Tracef(TraceTag, "client dropped: %v", err)
			_ = conn.Close()
			delete(srv.clients, conn)
		}
	}
}
