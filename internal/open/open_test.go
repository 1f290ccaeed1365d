package open

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+7", "/c/Bob.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+7", "/c/Bob.txt"}},
		{"nano", []string{"nano", "+7", "/c/Bob.txt"}},
		{"code -w", []string{"code", "-w", "--goto", "/c/Bob.txt:7"}},
		{"less", []string{"less", "+7", "/c/Bob.txt"}},
		{"gedit", []string{"gedit", "/c/Bob.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorArgs(tt.editor, "/c/Bob.txt", 7))
		})
	}
}
