package socket

import (
	"os"
	"testing"
	"time"

	"github.com/pstuifzand/manuscript/internal/project"
	"github.com/pstuifzand/manuscript/internal/storage"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	ws, err := storage.NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}

	server, err := NewServer(os.Getpid(), project.NewService(ws))
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)

	server.Start()

	// Wait a bit for server to be ready
	time.Sleep(100 * time.Millisecond)
	return server
}

func TestServerClient(t *testing.T) {
	server := testServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.Send(Request{Command: CommandCreateProject, Title: "Novel A"})
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if !response.Success {
		t.Fatalf("Expected success=true, got success=false: %s", response.Message)
	}
	if response.Document == nil {
		t.Fatal("Expected a document in the response")
	}
	if response.Document.Project.Title != "Novel A" {
		t.Errorf("Expected title 'Novel A', got '%s'", response.Document.Project.Title)
	}

	// The created project shows up in the listing
	response, err = client.ListProjects()
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(response.Projects) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(response.Projects))
	}
}

func TestSaveAndSnapshotOverSocket(t *testing.T) {
	server := testServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	created, err := client.Send(Request{Command: CommandCreateProject, Title: "Novel A"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	projectID := created.Document.Project.ID

	withChapter, err := client.Send(Request{Command: CommandCreateNode, ProjectID: projectID, Title: "Ch1"})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}
	chapterID := withChapter.Document.Project.Chapters[0].ID

	saved, err := client.SaveChapter(projectID, chapterID, "Hello")
	if err != nil {
		t.Fatalf("Failed to save chapter: %v", err)
	}
	if !saved.Success || saved.Document == nil {
		t.Fatalf("Expected a successful save, got: %s", saved.Message)
	}
	if saved.Document.Chapters[0].Content != "Hello" {
		t.Errorf("Expected content 'Hello', got '%s'", saved.Document.Chapters[0].Content)
	}

	snapshots, err := client.Send(Request{Command: CommandListSnapshots, ProjectID: projectID, NodeID: chapterID})
	if err != nil {
		t.Fatalf("Failed to list snapshots: %v", err)
	}
	if len(snapshots.Snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(snapshots.Snapshots))
	}

	read, err := client.Send(Request{
		Command:   CommandReadSnapshot,
		ProjectID: projectID,
		NodeID:    chapterID,
		Timestamp: snapshots.Snapshots[0].Timestamp.UnixMilli(),
	})
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if !read.Found {
		t.Fatal("Expected the snapshot to be found")
	}
	if read.Content != "Hello" {
		t.Errorf("Expected snapshot content 'Hello', got '%s'", read.Content)
	}
}

func TestMissingTargetResponse(t *testing.T) {
	server := testServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.Send(Request{Command: CommandGetProject, ProjectID: "missing"})
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if !response.Success {
		t.Fatalf("Lookup of a missing project is not an error: %s", response.Message)
	}
	if response.Found || response.Document != nil {
		t.Error("Expected no document for a missing project")
	}
}

func TestUnknownCommand(t *testing.T) {
	server := testServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.Send(Request{Command: "bogus"})
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if response.Success {
		t.Error("Expected failure for unknown command")
	}
}

func TestFindRunningInstance(t *testing.T) {
	server := testServer(t)

	socketPath, foundPid, err := FindRunningInstance()
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}

	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got socketPath=%s", server.SocketPath(), socketPath)
	}

	if foundPid != os.Getpid() {
		t.Errorf("Expected pid=%d, got pid=%d", os.Getpid(), foundPid)
	}
}
