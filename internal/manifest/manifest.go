// Package manifest generates and installs the native-messaging host manifest
// that tells a browser how to start the host binary.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// HostName is the name the extension passes to connectNative.
const HostName = "com.aretw0.dogear"

// Browsers with a known per-user manifest directory.
const (
	Chrome   = "chrome"
	Chromium = "chromium"
	Brave    = "brave"
	Firefox  = "firefox"
)

var ErrUnsupportedPlatform = errors.New("manifest: unsupported platform")

// Manifest is the JSON document browsers read. Chromium browsers use
// AllowedOrigins; Firefox uses AllowedExtensions.
type Manifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedOrigins    []string `json:"allowed_origins,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

// New builds the manifest for browser. binary must be an absolute path.
func New(browser, binary string, extensionIDs ...string) (Manifest, error) {
	if !filepath.IsAbs(binary) {
		return Manifest{}, fmt.Errorf("manifest: binary path must be absolute: %s", binary)
	}
	if len(extensionIDs) == 0 {
		return Manifest{}, fmt.Errorf("manifest: at least one extension id is required")
	}

	m := Manifest{
		Name:        HostName,
		Description: "dogear bookmark host",
		Path:        binary,
		Type:        "stdio",
	}
	switch browser {
	case Chrome, Chromium, Brave:
		for _, id := range extensionIDs {
			m.AllowedOrigins = append(m.AllowedOrigins, origin(id))
		}
	case Firefox:
		m.AllowedExtensions = append(m.AllowedExtensions, extensionIDs...)
	default:
		return Manifest{}, fmt.Errorf("manifest: unknown browser %q", browser)
	}
	return m, nil
}

func origin(id string) string {
	id = strings.TrimPrefix(strings.TrimSuffix(id, "/"), "chrome-extension://")
	return "chrome-extension://" + id + "/"
}

// Encode returns the indented JSON form.
func (m Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Dir returns the per-user NativeMessagingHosts directory of browser.
func Dir(browser string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return dirFor(runtime.GOOS, home, browser)
}

func dirFor(goos, home, browser string) (string, error) {
	var parts []string
	switch goos {
	case "linux":
		switch browser {
		case Chrome:
			parts = []string{".config", "google-chrome", "NativeMessagingHosts"}
		case Chromium:
			parts = []string{".config", "chromium", "NativeMessagingHosts"}
		case Brave:
			parts = []string{".config", "BraveSoftware", "Brave-Browser", "NativeMessagingHosts"}
		case Firefox:
			parts = []string{".mozilla", "native-messaging-hosts"}
		}
	case "darwin":
		support := []string{"Library", "Application Support"}
		switch browser {
		case Chrome:
			parts = append(support, "Google", "Chrome", "NativeMessagingHosts")
		case Chromium:
			parts = append(support, "Chromium", "NativeMessagingHosts")
		case Brave:
			parts = append(support, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts")
		case Firefox:
			parts = append(support, "Mozilla", "NativeMessagingHosts")
		}
	default:
		// Windows registers hosts through the registry.
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	if parts == nil {
		return "", fmt.Errorf("manifest: unknown browser %q", browser)
	}
	return filepath.Join(append([]string{home}, parts...)...), nil
}

// Install writes m into dir as <HostName>.json and returns the file path.
func Install(dir string, m Manifest) (string, error) {
	data, err := m.Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}
	path := filepath.Join(dir, HostName+".json")
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
