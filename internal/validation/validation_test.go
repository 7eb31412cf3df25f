package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProjectPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		expectErr bool
	}{
		{name: "plain directory", path: "src"},
		{name: "nested directory", path: "packages/web/dist"},
		{name: "dot prefix", path: "./build"},
		{name: "inner parent reference", path: "a/../b"},
		{name: "empty", path: "", expectErr: true},
		{name: "absolute", path: "/tmp/out", expectErr: true},
		{name: "escapes root", path: "../dist", expectErr: true},
		{name: "escapes after clean", path: "a/../../dist", expectErr: true},
		{name: "parent only", path: "..", expectErr: true},
		{name: "shell injection", path: "dist;rm -rf", expectErr: true},
		{name: "command substitution", path: "dist$(whoami)", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectPath(tt.path)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		host      string
		expectErr bool
	}{
		{host: "localhost"},
		{host: "0.0.0.0"},
		{host: "127.0.0.1"},
		{host: "::1"},
		{host: "dev.example.com"},
		{host: "my-host"},
		{host: "-bad", expectErr: true},
		{host: "host name", expectErr: true},
		{host: "evil;rm", expectErr: true},
		{host: "a$(b)", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			err := ValidateHost(tt.host)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		expectErr bool
	}{
		{name: "http localhost", url: "http://localhost:3000/"},
		{name: "https host", url: "https://example.com"},
		{name: "ip address", url: "http://192.168.1.1"},
		{name: "fragment", url: "https://example.com#section"},
		{name: "encoded path", url: "https://example.com/path%20with%20spaces"},
		{name: "long path", url: "https://example.com/" + strings.Repeat("a", 2000)},

		{name: "javascript scheme", url: "javascript:alert(1)", expectErr: true},
		{name: "file scheme", url: "file:///etc/passwd", expectErr: true},
		{name: "ftp scheme", url: "ftp://ftp.example.com", expectErr: true},
		{name: "semicolon", url: "http://example.com; rm -rf /", expectErr: true},
		{name: "pipe", url: "http://example.com|nc", expectErr: true},
		{name: "backtick", url: "http://example.com`whoami`", expectErr: true},
		{name: "newline", url: "http://example.com\nrm", expectErr: true},
		{name: "query separator", url: "https://example.com?a=1&b=2", expectErr: true},
		{name: "no scheme", url: "not-a-url", expectErr: true},
		{name: "empty", url: "", expectErr: true},
		{name: "no host", url: "http://", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
