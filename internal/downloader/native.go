package downloader

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
)

// Native downloads audio without external binaries using the youtube client
// library. Whisper-family APIs accept m4a/webm directly, so no transcode
// step is needed.
type Native struct {
	client ytdl.Client
}

func NewNative() *Native {
	return &Native{client: ytdl.Client{}}
}

func (d *Native) Fetch(ctx context.Context, videoURL, dir string) (string, error) {
	video, err := d.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return "", fmt.Errorf("resolve video: %w", err)
	}

	var formats []ytdl.Format
	for _, f := range video.Formats {
		if strings.HasPrefix(f.MimeType, "audio/") {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return "", fmt.Errorf("no audio formats available for %s", video.ID)
	}

	// Highest bitrate wins
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Bitrate > formats[j].Bitrate
	})
	best := formats[0]

	stream, _, err := d.client.GetStreamContext(ctx, video, &best)
	if err != nil {
		return "", fmt.Errorf("open audio stream: %w", err)
	}
	defer stream.Close()

	out := filepath.Join(dir, "audio"+audioExtension(best.MimeType))
	file, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer file.Close()

	written, err := io.Copy(file, stream)
	if err != nil {
		os.Remove(out)
		return "", fmt.Errorf("download audio: %w", err)
	}

	log.Printf("[downloader] fetched %s (%d bytes, %s)", video.ID, written, best.MimeType)
	return out, nil
}

func audioExtension(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}
