// Package testing flips the portal into test mode when blank-imported from
// a _test.go file, so binaries and config loaders skip external side effects.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

var testDefaults = map[string]string{
	"PORTAL_TEST_MODE": "1",
	"CSRF_SECRET":      "test-csrf-secret",
	"JWT_SECRET":       "test-jwt-secret-test-jwt-secret-0000",
}

func ensureTestMode() {
	once.Do(func() {
		for key, value := range testDefaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
