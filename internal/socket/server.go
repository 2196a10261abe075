package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pstuifzand/manuscript/internal/model"
	"github.com/pstuifzand/manuscript/internal/project"
	"github.com/pstuifzand/manuscript/internal/search"
)

// request couples an incoming Request with the channel its Response goes to
type request struct {
	req   Request
	reply chan Response
}

// Server accepts store operations over a Unix socket. All requests are
// applied by a single dispatch goroutine, so mutations coming through the
// socket are serialized: the store itself takes no locks.
type Server struct {
	socketPath string
	listener   net.Listener
	service    *project.Service
	reqChan    chan request
	stopChan   chan struct{}
}

// NewServer creates a Unix socket server for the given service
func NewServer(pid int, service *project.Service) (*Server, error) {
	// Use XDG_RUNTIME_DIR if available, otherwise fall back to ~/.local/share
	var socketDir string
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		socketDir = filepath.Join(xdgRuntime, "manuscript")
	} else {
		socketDir = filepath.Join(os.Getenv("HOME"), ".local", "share", "manuscript")
	}

	if err := os.MkdirAll(socketDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(socketDir, fmt.Sprintf("manuscript-%d.sock", pid))

	// Remove existing socket if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	slog.Info("socket server listening", "path", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		service:    service,
		reqChan:    make(chan request),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections and dispatching requests
func (s *Server) Start() {
	go s.dispatchLoop()
	go s.acceptLoop()
}

// acceptLoop continuously accepts new connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				slog.Error("error accepting connection", "error", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// dispatchLoop applies requests one at a time
func (s *Server) dispatchLoop() {
	for {
		select {
		case <-s.stopChan:
			return
		case r := <-s.reqChan:
			r.reply <- s.handle(r.req)
		}
	}
}

// handleConnection processes a single client connection: one request, one
// response
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var req Request
	if err := decoder.Decode(&req); err != nil {
		if err != io.EOF {
			slog.Error("error decoding request", "error", err)
		}
		encoder.Encode(Response{Success: false, Message: fmt.Sprintf("Invalid request format: %v", err)})
		return
	}

	if req.Command == "" {
		encoder.Encode(Response{Success: false, Message: "Missing command field"})
		return
	}

	reply := make(chan Response, 1)
	select {
	case s.reqChan <- request{req: req, reply: reply}:
		select {
		case response := <-reply:
			encoder.Encode(response)
		case <-time.After(10 * time.Second):
			encoder.Encode(Response{Success: false, Message: "Command timed out"})
		}
	case <-s.stopChan:
		encoder.Encode(Response{Success: false, Message: "Server is shutting down"})
	}
}

// handle executes one request against the service
func (s *Server) handle(req Request) Response {
	switch req.Command {
	case CommandListProjects:
		projects, err := s.service.ListProjects()
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Projects: projects}

	case CommandCreateProject:
		return documentResponse(s.service.CreateProject(req.Title, req.Description))

	case CommandRenameProject:
		return documentResponse(s.service.RenameProject(req.ProjectID, req.Title))

	case CommandUpdateDescription:
		return documentResponse(s.service.UpdateDescription(req.ProjectID, req.Description))

	case CommandDeleteProject:
		deleted, err := s.service.DeleteProject(req.ProjectID)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Found: deleted}

	case CommandReorderProjects:
		order, err := s.service.ReorderProjects(req.Order)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Order: order}

	case CommandGetProject:
		return documentResponse(s.service.GetProject(req.ProjectID))

	case CommandCreateNode:
		return documentResponse(s.service.CreateNode(req.ProjectID, req.Title, req.ParentID, model.NodeKind(req.Kind), req.Variant))

	case CommandDeleteNode:
		return documentResponse(s.service.DeleteNode(req.ProjectID, req.NodeID))

	case CommandMoveNode:
		return documentResponse(s.service.MoveNode(req.ProjectID, req.NodeID, req.ParentID))

	case CommandReorderSiblings:
		return documentResponse(s.service.ReorderSiblings(req.ProjectID, req.ParentID, req.Order))

	case CommandSaveChapter:
		return documentResponse(s.service.SaveChapter(req.ProjectID, req.NodeID, req.Content))

	case CommandAutosaveChapter:
		return documentResponse(s.service.AutosaveChapter(req.ProjectID, req.NodeID, req.Content))

	case CommandListSnapshots:
		snapshots, err := s.service.ListSnapshots(req.ProjectID, req.NodeID)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Snapshots: snapshots}

	case CommandReadSnapshot:
		content, found, err := s.service.ReadSnapshot(req.ProjectID, req.NodeID, time.UnixMilli(req.Timestamp))
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Content: content, Found: found}

	case CommandDeleteSnapshot:
		return documentResponse(s.service.DeleteSnapshot(req.ProjectID, req.NodeID, time.UnixMilli(req.Timestamp)))

	case CommandSearch:
		projects, err := s.service.ListProjects()
		if err != nil {
			return errorResponse(err)
		}
		return Response{Success: true, Matches: search.Titles(projects, req.Query)}

	default:
		return Response{Success: false, Message: fmt.Sprintf("Unknown command: %s", req.Command)}
	}
}

func documentResponse(doc *project.Document, err error) Response {
	if err != nil {
		return errorResponse(err)
	}
	return Response{Success: true, Document: doc, Found: doc != nil}
}

func errorResponse(err error) Response {
	return Response{Success: false, Message: err.Error()}
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and cleans up resources
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	// Clean up socket file
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
	slog.Info("socket server stopped")
}
