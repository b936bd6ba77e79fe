package downloader

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// YTDLP shells out to the yt-dlp binary to extract a video's audio as MP3
type YTDLP struct {
	binary string
}

func NewYTDLP(binary string) *YTDLP {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLP{binary: binary}
}

func (d *YTDLP) Fetch(ctx context.Context, videoURL, dir string) (string, error) {
	base := filepath.Join(dir, "audio")

	cmd := exec.CommandContext(ctx, d.binary,
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--quiet", "--no-warnings",
		"-o", base+".%(ext)s",
		videoURL,
	)

	log.Printf("[downloader] yt-dlp fetching %s", videoURL)
	if output, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("yt-dlp: %s", msg)
	}

	// yt-dlp decides the final extension; find the file it actually wrote
	if _, err := os.Stat(base + ".mp3"); err == nil {
		return base + ".mp3", nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "audio.") {
			return filepath.Join(dir, e.Name()), nil
		}
	}

	return "", fmt.Errorf("audio file not found after download")
}
