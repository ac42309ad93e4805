// Package remote exposes an armature tree over HTTP: a JSON view of the latest Snapshot, a REST endpoint accepting
// Commands, and a websocket that both accepts Commands and streams Snapshots as they're published.
package remote

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solarlune/armature"
)

// maxCommandSize is the largest request body or websocket message accepted as a Command.
const maxCommandSize = 4096

// Server pushes the Commands it receives onto an EventQueue as Events, and serves Snapshots read from a SnapshotSource.
// It never touches Nodes directly.
type Server struct {
	Queue    *armature.EventQueue
	Snapshot func() armature.Snapshot
	Log      logrus.FieldLogger
	// AccessLog receives one line per HTTP request in Apache Combined Log Format; defaults to os.Stdout.
	AccessLog io.Writer

	upgrader websocket.Upgrader

	lock    sync.Mutex
	clients map[*client]bool
	last    []byte
	closed  bool
}

// NewServer creates a new Server feeding the queue given and serving Snapshots from the snapshot function given
// (usually a FrameDriver's LatestSnapshot).
func NewServer(queue *armature.EventQueue, snapshot func() armature.Snapshot) *Server {
	return &Server{
		Queue:     queue,
		Snapshot:  snapshot,
		Log:       armature.Logger(),
		AccessLog: os.Stdout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: map[*client]bool{},
	}
}

// Router returns the Server's routes without any middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/tree", s.handleTree).Methods(http.MethodGet)
	r.HandleFunc("/api/tree/{path:.*}", s.handleNode).Methods(http.MethodGet)
	r.HandleFunc("/api/command", s.handleCommand).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebsocket)
	return r
}

// Handler returns the Server's routes wrapped in request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.RecoveryLogger(s.Log), handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(s.AccessLog, h)
}

// ListenAndServe serves the Server's Handler on the address given, blocking until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.Log.WithField("addr", addr).Info("starting remote server")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	ns, ok := s.Snapshot().Node(path)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no node at path %q", path))
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "reading command"))
		return
	}

	if err := s.push(body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)

}

// push decodes a Command and queues its Event.
func (s *Server) push(data []byte) error {

	cmd := armature.Command{}
	if err := json.Unmarshal(data, &cmd); err != nil {
		return errors.Wrap(err, "decoding command")
	}

	event, err := cmd.Event()
	if err != nil {
		return err
	}

	s.Queue.Push(event)
	s.Log.WithField("event", event).Debug("queued remote command")
	return nil

}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		armature.Logger().WithError(err).Warn("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
