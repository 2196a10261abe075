// manuscript-save sends chapter content to a running manuscript instance
// over its Unix socket, so editors can commit or autosave without touching
// the workspace files directly.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pstuifzand/manuscript/internal/socket"
)

func main() {
	projectID := flag.String("project", "", "Project ID")
	chapterID := flag.String("chapter", "", "Chapter ID")
	autosave := flag.Bool("autosave", false, "Store as a draft instead of committing")
	flag.Parse()

	if *projectID == "" || *chapterID == "" {
		fmt.Fprintln(os.Stderr, "Usage: manuscript-save -project <id> -chapter <id> [-autosave] [file]")
		os.Exit(1)
	}

	content, err := readContent(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := send(*projectID, *chapterID, content, *autosave); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readContent takes the chapter text from the file argument, or stdin when
// no file is given
func readContent(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func send(projectID, chapterID, content string, autosave bool) error {
	socketPath, pid, err := socket.FindRunningInstance()
	if err != nil {
		return fmt.Errorf("no running manuscript instance found: %w", err)
	}

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	var response *socket.Response
	if autosave {
		response, err = client.AutosaveChapter(projectID, chapterID, content)
	} else {
		response, err = client.SaveChapter(projectID, chapterID, content)
	}
	if err != nil {
		return fmt.Errorf("failed to send command (pid %d): %w", pid, err)
	}
	if !response.Success {
		return fmt.Errorf("server error: %s", response.Message)
	}
	if !response.Found {
		return fmt.Errorf("no such chapter: %s", chapterID)
	}

	if autosave {
		fmt.Println("Draft stored")
	} else {
		fmt.Println("Chapter committed")
	}
	return nil
}
