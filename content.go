package ordo

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	maxTextChars  = 1024
	maxImageBytes = 20 * 1024 * 1024
)

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".json": true, ".xml": true,
	".html": true, ".htm": true, ".css": true, ".js": true, ".py": true,
	".java": true, ".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".cs": true, ".php": true, ".rb": true, ".go": true, ".ts": true,
	".tsx": true, ".jsx": true, ".yml": true, ".yaml": true, ".ini": true,
	".cfg": true, ".conf": true, ".log": true, ".sql": true, ".sh": true,
	".bat": true, ".ps1": true, ".tex": true, ".rst": true, ".r": true,
	".swift": true,
}

// Formats the caption endpoint accepts; other image types are organized
// by name and metadata only.
var captionExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

func IsTextFile(ext string) bool    { return textExtensions[ext] }
func IsCaptionable(ext string) bool { return captionExtensions[ext] }

// ExtractText returns the beginning of a file, capped so prompts stay
// small. Bytes that do not form valid UTF-8 are dropped.
func ExtractText(root, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	truncated := len(data) > maxTextChars
	if truncated {
		data = data[:maxTextChars]
		for len(data) > 0 && !utf8.Valid(data) {
			data = data[:len(data)-1]
		}
	}
	text := strings.ToValidUTF8(string(data), "")
	if truncated {
		text += "..."
	}
	return text, nil
}

// EncodeImage base64-encodes an image for a multimodal prompt. Oversized
// images are refused rather than truncated.
func EncodeImage(root, rel string) (string, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.Size() > maxImageBytes {
		return "", fmt.Errorf("image '%s' exceeds the 20MB limit", rel)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func imageMime(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
