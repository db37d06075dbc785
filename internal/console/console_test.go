package console

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestConsole_Lines(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name  string
		write func(*Console)
		want  string
	}{
		{
			name:  "success",
			write: func(c *Console) { c.Success("Server started: %s", "http://localhost:8000") },
			want:  "✅ Server started: http://localhost:8000\n",
		},
		{
			name:  "info",
			write: func(c *Console) { c.Info("📂", "Serving directory: %s", "/srv") },
			want:  "📂 Serving directory: /srv\n",
		},
		{
			name:  "warn",
			write: func(c *Console) { c.Warn("watch disabled") },
			want:  "⚠️  watch disabled\n",
		},
		{
			name:  "error",
			write: func(c *Console) { c.Error("cannot start server on port %d", 8000) },
			want:  "❌ cannot start server on port 8000\n",
		},
		{
			name:  "plain",
			write: func(c *Console) { c.Plain("   (Ctrl+C to stop)") },
			want:  "   (Ctrl+C to stop)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(New(&buf))
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
