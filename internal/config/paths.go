package config

import (
	"os"
	"path/filepath"
	"strings"
)

// RuntimeRoot is the directory relative runtime paths hang off. EBG_HOME wins,
// then the directory holding the binary, then the working directory.
func RuntimeRoot() string {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Clean(home)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath returns raw as an absolute path, or RuntimeRoot()/subdir
// when raw is blank.
func ResolveRuntimePath(raw, subdir string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		p = subdir
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(RuntimeRoot(), p)
}
