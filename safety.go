package ordo

import (
	"fmt"
	"strings"
)

// CheckDestination validates that a proposed destination path stays inside
// the target root and is syntactically usable. The check is purely
// syntactic: characters that are only illegal on some host filesystems are
// left for the move step to fail on per entry.
func CheckDestination(dest string) error {
	if dest == "" {
		return fmt.Errorf("empty destination path")
	}
	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, `\`) {
		return fmt.Errorf("absolute path %q", dest)
	}
	segments := strings.Split(dest, "/")
	if isDriveRef(segments[0]) {
		return fmt.Errorf("path %q addresses a drive root", dest)
	}
	for _, seg := range segments {
		switch seg {
		case "":
			return fmt.Errorf("path %q contains an empty segment", dest)
		case ".", "..":
			return fmt.Errorf("path %q contains traversal sequences", dest)
		}
		if strings.ContainsAny(seg, "\x00\\") {
			return fmt.Errorf("path %q contains an illegal character", dest)
		}
	}
	return nil
}

func isDriveRef(seg string) bool {
	if len(seg) != 2 || seg[1] != ':' {
		return false
	}
	c := seg[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
