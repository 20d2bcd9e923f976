package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an app instance for system testing, capturing its
// logs. Pass a nil loader to use the HCL loader.
func SetupAppTest(t *testing.T, cfg Config, loader config.Loader) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if loader == nil {
		loader = hcl.NewLoader()
	}

	validated, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test app config: %v", err)
	}
	testApp := NewApp(logBuffer, validated, loader)

	t.Cleanup(func() {
		if os.Getenv("MDPGG_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
