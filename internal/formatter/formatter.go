// package formatter renders hydrated playlists to the JSON cache and Markdown summary files
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/shared"
)

var (
	cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")
	textEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "\r\n", " ", "\n", " ")
)

// FormatDuration renders milliseconds as H:MM:SS, dropping the sub-second remainder.
//
// Hours are not padded and keep counting past a day.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// RenderSummary converts a hydrated playlist to the Markdown summary document:
// a linked title, an optional cover, a numbered Artist/Song table and a closing "Created by" line.
func RenderSummary(p *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", link(p.Name, p.ExternalURLs.Spotify)))

	if cover := p.CoverURL(); cover != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", cover))
	}

	buf.WriteString("&#35;|Artist|Song\n")
	buf.WriteString("----:|:-----|:---\n")
	for i, item := range p.Tracks.Items {
		buf.WriteString(fmt.Sprintf("%d|%s|%s\n", i+1, cellEscaper.Replace(item.Track.PrimaryArtist()), cellEscaper.Replace(item.Track.Name)))
	}

	buf.WriteString(fmt.Sprintf("\nCreated by %s · %d songs · %s\n",
		link(p.Owner.Name(), p.Owner.ExternalURLs.Spotify), trackTotal(p), FormatDuration(p.DurationMS())))

	return buf.Bytes()
}

// SummaryFilename turns a playlist name into a file name that stays inside the output directory.
func SummaryFilename(name string) string {
	return shared.SafeFilename(name)
}

// WriteCache writes the playlist as indented JSON to {dir}/{id}.json, overwriting any previous file.
func WriteCache(p *models.Playlist, dir string) (string, error) {
	data, err := shared.MarshalJSON(p, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode playlist %s: %w", p.ID, err)
	}

	return writeFile(dir, shared.SafeFilename(p.ID)+".json", data)
}

// WriteSummary renders the playlist and writes it to {dir}/{filename}.md.
func WriteSummary(p *models.Playlist, dir, filename string) (string, error) {
	if filename == "" {
		filename = SummaryFilename(p.Name)
	}
	return writeFile(dir, filename+".md", RenderSummary(p))
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create directory %s: %v", shared.ErrFilesystem, dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", shared.ErrFilesystem, path, err)
	}

	return path, nil
}

// link renders a Markdown link; the text is kept on one line with its brackets escaped.
func link(text, url string) string {
	text = textEscaper.Replace(text)
	if url == "" {
		return text
	}
	return fmt.Sprintf("[%s](%s)", text, url)
}

// trackTotal prefers the server's count but never reports fewer tracks than were rendered.
func trackTotal(p *models.Playlist) int {
	return max(p.Tracks.Total, len(p.Tracks.Items))
}
