// File: filex.go
// Title: Core File Utilities
// Description: File type checks, extension matching, directory search and
//              content hashing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package filex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ===============================
// File Existence and Basic Info
// ===============================

// Exists checks if a file or directory exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsFile checks if the path exists and is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsDir checks if the path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FormatSize formats a byte count for humans (B, KB, MB, ...)
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ===============================
// Extension Matching and Search
// ===============================

// HasExtension reports whether path ends in one of extensions (case-insensitive)
func HasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// FindByExtension walks root and returns all regular files with one of the
// extensions, sorted
func FindByExtension(root string, extensions []string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && HasExtension(path, extensions) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during file search: %w", err)
	}

	sort.Strings(matches)
	return matches, nil
}

// ===============================
// Content Hashing
// ===============================

// SHA256Hash calculates the SHA256 hash of a file
func SHA256Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open file %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("error calculating SHA256 hash: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
