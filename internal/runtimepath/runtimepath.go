// Package runtimepath locates the files a running glwindow daemon shares
// with its clients: the IPC socket and the pid file.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvSocket names a socket path that overrides the default, so more than one
// daemon can run for the same user.
const EnvSocket = "GLWINDOW_SOCKET"

// maxSocketPath is the size of sun_path on Linux, including the NUL.
const maxSocketPath = 108

// Dir is $XDG_RUNTIME_DIR, else /run/user/<uid>, else a private directory
// under /tmp that is created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("glwindow-runtime-%d", uid))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath is where the daemon listens and clients connect.
func SocketPath() (string, error) {
	path := os.Getenv(EnvSocket)
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "glwindow.sock")
	}
	if len(path) >= maxSocketPath {
		return "", fmt.Errorf("socket path %q is longer than %d bytes", path, maxSocketPath-1)
	}
	return path, nil
}

// PIDPath sits next to the socket so each daemon gets its own pid file.
func PIDPath() (string, error) {
	socket, err := SocketPath()
	if err != nil {
		return "", err
	}
	return socket[:len(socket)-len(filepath.Ext(socket))] + ".pid", nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
