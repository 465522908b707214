package prsqc

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// quietSession returns a Session that discards its log output.
func quietSession() *Session {
	s := NewSession()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.Log = logger
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
