// Package validation checks user-supplied values before they reach the file
// system, the network or a spawned process.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	shellChars = []string{";", "&", "|", "$", "`", "<", ">"}
	quoteChars = []string{"(", ")", "\"", "'", "\\"}

	hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// ValidateProjectPath validates a directory setting that is resolved against
// the project root, such as the source or output directory. The path must be
// relative and must stay inside the root.
func ValidateProjectPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("path must be relative to the project root: %s", path)
	}

	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes the project root: %s", path)
	}

	if char, ok := containsAny(path, shellChars); ok {
		return fmt.Errorf("path contains dangerous character: %s", char)
	}
	return nil
}

// ValidateHost validates a development server bind host.
func ValidateHost(host string) error {
	if char, ok := containsAny(host, append(shellChars, quoteChars...)); ok {
		return fmt.Errorf("contains dangerous character: %s", char)
	}
	if net.ParseIP(host) != nil || host == "localhost" {
		return nil
	}
	if !hostnamePattern.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}
	return nil
}

// ValidateURL validates a URL handed to the platform browser launcher.
// Only http and https URLs with a host and no shell metacharacters pass.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}
	if char, ok := containsAny(rawURL, append(append(shellChars, quoteChars...), " ", "\n", "\r")); ok {
		return fmt.Errorf("URL contains dangerous character: %q", char)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	return nil
}

func containsAny(s string, chars []string) (string, bool) {
	for _, c := range chars {
		if strings.Contains(s, c) {
			return c, true
		}
	}
	return "", false
}
