package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/pstuifzand/manuscript/internal/config"
	"github.com/pstuifzand/manuscript/internal/diff"
	"github.com/pstuifzand/manuscript/internal/export"
	"github.com/pstuifzand/manuscript/internal/history"
	"github.com/pstuifzand/manuscript/internal/project"
	"github.com/pstuifzand/manuscript/internal/search"
	"github.com/pstuifzand/manuscript/internal/socket"
	"github.com/pstuifzand/manuscript/internal/storage"
)

func main() {
	workspaceFlag := flag.String("workspace", "", "Workspace directory (overrides the config file)")
	serve := flag.Bool("serve", false, "Run the Unix socket server")
	dump := flag.String("dump", "", "Dump a project's materialized document and exit")
	flag.Parse()

	logFile, err := os.OpenFile("manuscript.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	root := cfg.Workspace
	if *workspaceFlag != "" {
		root = *workspaceFlag
	}

	ws, err := storage.NewWorkspace(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening workspace: %v\n", err)
		os.Exit(1)
	}
	svc := project.NewService(ws)

	if *dump != "" {
		if err := runDump(svc, *dump); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *serve {
		if err := runServe(svc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runCommand(svc, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runServe runs the socket server until interrupted
func runServe(svc *project.Service) error {
	server, err := socket.NewServer(os.Getpid(), svc)
	if err != nil {
		return err
	}
	server.Start()
	fmt.Printf("Listening on %s\n", server.SocketPath())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	server.Stop()
	return nil
}

// runDump prints the materialized document for debugging
func runDump(svc *project.Service, projectID string) error {
	doc, err := svc.GetProject(projectID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no such project: %s", projectID)
	}
	spew.Fdump(os.Stdout, doc)
	return nil
}

func runCommand(svc *project.Service, args []string) error {
	if len(args) == 0 {
		return cmdList(svc)
	}

	switch args[0] {
	case "list":
		return cmdList(svc)
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: manuscript create <title> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = strings.Join(args[2:], " ")
		}
		doc, err := svc.CreateProject(args[1], description)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s (%s)\n", doc.Project.Title, doc.Project.ID)
		return recordRecent(doc.Project.ID)
	case "open":
		if len(args) != 2 {
			return fmt.Errorf("usage: manuscript open <project-id>")
		}
		return cmdOpen(svc, args[1])
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: manuscript delete <project-id>")
		}
		return cmdDelete(svc, args[1])
	case "recent":
		return cmdRecent()
	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: manuscript search <query>")
		}
		return cmdSearch(svc, strings.Join(args[1:], " "))
	case "import":
		if len(args) != 2 {
			return fmt.Errorf("usage: manuscript import <file.md>")
		}
		return cmdImport(svc, args[1])
	case "export":
		if len(args) != 3 {
			return fmt.Errorf("usage: manuscript export <project-id> <file.md>")
		}
		return cmdExport(svc, args[1], args[2])
	case "diff":
		if len(args) != 4 {
			return fmt.Errorf("usage: manuscript diff <project-id> <chapter-id> <snapshot-timestamp>")
		}
		return cmdDiff(svc, args[1], args[2], args[3])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func cmdList(svc *project.Service) error {
	projects, err := svc.ListProjects()
	if err != nil {
		return err
	}
	for _, p := range projects {
		fmt.Printf("%s  %-30s  %d words\n", p.ID, p.Title, p.Stats.Words)
	}
	return nil
}

func cmdOpen(svc *project.Service, projectID string) error {
	doc, err := svc.GetProject(projectID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no such project: %s", projectID)
	}

	fmt.Printf("%s\n", doc.Project.Title)
	if doc.Project.Description != "" {
		fmt.Printf("%s\n", doc.Project.Description)
	}
	fmt.Printf("%d words, %d chapters\n", doc.Project.Stats.Words, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		marker := " "
		if ch.Draft {
			marker = "*" // pending autosave
		}
		fmt.Printf("%s %s  %s\n", marker, ch.ID, ch.Title)
	}
	return recordRecent(projectID)
}

func cmdDelete(svc *project.Service, projectID string) error {
	deleted, err := svc.DeleteProject(projectID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("no such project: %s", projectID)
	}
	if m, err := history.NewManager(); err == nil {
		m.Forget(projectID)
	}
	fmt.Println("Deleted")
	return nil
}

func cmdRecent() error {
	m, err := history.NewManager()
	if err != nil {
		return err
	}
	recent, err := m.Recent()
	if err != nil {
		return err
	}
	for _, id := range recent {
		fmt.Println(id)
	}
	return nil
}

func cmdSearch(svc *project.Service, query string) error {
	projects, err := svc.ListProjects()
	if err != nil {
		return err
	}
	for _, m := range search.Titles(projects, query) {
		if m.NodeID == "" {
			fmt.Printf("%s  %s\n", m.ProjectID, m.Title)
		} else {
			fmt.Printf("%s  %s > %s\n", m.ProjectID, m.ProjectTitle, m.Title)
		}
	}
	return nil
}

func cmdImport(svc *project.Service, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	fallback := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	doc, err := svc.ImportMarkdown(string(data), fallback)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s (%s), %d words\n", doc.Project.Title, doc.Project.ID, doc.Project.Stats.Words)
	return recordRecent(doc.Project.ID)
}

func cmdExport(svc *project.Service, projectID, filePath string) error {
	doc, err := svc.GetProject(projectID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no such project: %s", projectID)
	}
	if err := export.ExportToMarkdown(doc, filePath); err != nil {
		return err
	}
	fmt.Printf("Exported %s to %s\n", doc.Project.Title, filePath)
	return nil
}

// cmdDiff prints a unified diff between a snapshot and the chapter's current
// content
func cmdDiff(svc *project.Service, projectID, chapterID, timestampArg string) error {
	ms, err := strconv.ParseInt(timestampArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot timestamp %q: %w", timestampArg, err)
	}
	timestamp := time.UnixMilli(ms)

	old, found, err := svc.ReadSnapshot(projectID, chapterID, timestamp)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such snapshot: %d", ms)
	}

	doc, err := svc.GetProject(projectID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no such project: %s", projectID)
	}
	current := ""
	for _, ch := range doc.Chapters {
		if ch.ID == chapterID {
			current = ch.Content
			break
		}
	}

	result, err := diff.Unified(
		fmt.Sprintf("%s@%s", chapterID, timestamp.Format(time.RFC3339)),
		chapterID, old, current)
	if err != nil {
		return err
	}
	if result == "" {
		fmt.Println("No changes")
		return nil
	}
	fmt.Print(result)
	fmt.Println(diff.Compare(old, current).Summary())
	return nil
}

// recordRecent is best effort, project operations never fail on history
// errors
func recordRecent(projectID string) error {
	m, err := history.NewManager()
	if err != nil {
		slog.Warn("could not open history", "error", err)
		return nil
	}
	if err := m.Record(projectID); err != nil {
		slog.Warn("could not record history", "error", err)
	}
	return nil
}
