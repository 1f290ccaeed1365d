package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/wa-stats/internal/index"
)

// OpenChat opens the export file of chatKey in $EDITOR, positioned on the
// first line of message hitSeq (or the top of the file for hitSeq < 0).
func OpenChat(db *index.DB, chatKey string, hitSeq int) error {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return fmt.Errorf("chat not found: %s", chatKey)
	}

	filePath := chat.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if hitSeq >= 0 {
		m, err := db.GetMessage(chatKey, hitSeq)
		if err == nil && m != nil && m.LineNumber > 0 {
			lineNum = m.LineNumber
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	args := editorArgs(editor, filePath, lineNum)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editorArgs builds the command line that opens filePath at lineNum.
// $EDITOR may carry its own flags ("code -w").
func editorArgs(editor, filePath string, lineNum int) []string {
	fields := strings.Fields(editor)
	name := filepath.Base(fields[0])

	switch {
	case strings.Contains(name, "vim") || name == "vi" || name == "nano" || name == "emacs":
		return append(fields, "+"+strconv.Itoa(lineNum), filePath)
	case strings.Contains(name, "code"):
		return append(fields, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(name, "less"):
		return append(fields, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return append(fields, filePath)
	}
}
