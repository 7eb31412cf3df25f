package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// PublicEnvPrefix marks environment variables that are inlined into bundles.
const PublicEnvPrefix = "ZGL_PUBLIC_"

// EnvFiles returns the dotenv files consulted for mode, lowest precedence first.
func EnvFiles(root, mode string) []string {
	files := []string{".env", ".env.local"}
	if mode != "" {
		files = append(files, ".env."+mode, ".env."+mode+".local")
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(root, f)
	}
	return paths
}

// LoadEnv reads the dotenv files of root for mode. Later files override
// earlier ones and the process environment overrides all of them. Missing
// files are skipped; an unparsable file is returned as an error.
func LoadEnv(root, mode string) (map[string]string, error) {
	values := make(map[string]string)
	for _, path := range EnvFiles(root, mode) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		parsed, err := godotenv.Read(path)
		if err != nil {
			return nil, err
		}
		for k, v := range parsed {
			values[k] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, PublicEnvPrefix) {
			values[k] = v
		}
	}
	return values, nil
}

// Defines converts environment values into compile-time replacements. Only
// public variables are exposed; NODE_ENV always reflects mode.
func Defines(env map[string]string, mode string) map[string]string {
	defines := make(map[string]string)
	for k, v := range env {
		if !strings.HasPrefix(k, PublicEnvPrefix) {
			continue
		}
		defines["process.env."+k] = jsonString(v)
	}
	if mode != "" {
		defines["process.env.NODE_ENV"] = jsonString(mode)
	}
	return defines
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
