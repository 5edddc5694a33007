package casid

import (
	"path/filepath"
	"strings"
)

// KindUnknown is assigned when the extension maps to no known kind.
const KindUnknown = "unknown"

var kindsByExtension = map[string]string{
	".txt":  "text",
	".md":   "text",
	".pdf":  "document",
	".doc":  "document",
	".docx": "document",
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".webp": "image",
	".heic": "image",
	".svg":  "image",
	".mp4":  "video",
	".mkv":  "video",
	".mov":  "video",
	".avi":  "video",
	".webm": "video",
	".mp3":  "audio",
	".flac": "audio",
	".wav":  "audio",
	".ogg":  "audio",
	".m4a":  "audio",
	".zip":  "archive",
	".tar":  "archive",
	".gz":   "archive",
	".7z":   "archive",
	".go":   "code",
	".rs":   "code",
	".py":   "code",
	".js":   "code",
	".ts":   "code",
	".json": "config",
	".toml": "config",
	".yaml": "config",
	".yml":  "config",
}

// KindForPath classifies a file by extension.
func KindForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := kindsByExtension[ext]; ok {
		return kind
	}
	return KindUnknown
}
