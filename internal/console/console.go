package console

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("32"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("31"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle    = lipgloss.NewStyle().PaddingRight(1)
)

type Printer struct {
	stream io.Writer
	indent string
}

// NewPrinter creates a new Printer instance with the specified output stream.
func NewPrinter(stream io.Writer) *Printer {
	if f, ok := stream.(*os.File); ok && f == os.Stderr {
		os.Setenv("CLICOLOR_FORCE", "1")
	}

	return &Printer{
		stream: stream,
		indent: "  ",
	}
}

func (p *Printer) Info(emoji string, format string, a ...any) (n int, err error) {
	prefix := p.indent + withEmoji(emoji)
	return fmt.Fprintf(p.stream, prefix+format+"\n", a...)
}

func (p *Printer) Success(emoji string, format string, a ...any) (n int, err error) {
	prefix := p.indent + withEmoji(emoji)
	return fmt.Fprintln(p.stream, successStyle.Render(fmt.Sprintf(prefix+format, a...)))
}

func (p *Printer) Warn(emoji string, format string, a ...any) (n int, err error) {
	prefix := p.indent + withEmoji(emoji)
	return fmt.Fprintln(p.stream, warnStyle.Render(fmt.Sprintf(prefix+format, a...)))
}

func (p *Printer) Error(emoji string, format string, a ...any) (n int, err error) {
	prefix := p.indent + withEmoji(emoji)
	return fmt.Fprintln(p.stream, errorStyle.Render(fmt.Sprintf(prefix+format, a...)))
}

// Row is one line of a file table.
type Row struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Files prints rows as an aligned table with kind icons and humanized sizes.
func (p *Printer) Files(rows []Row) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderHeader(false).
		Headers("KIND", "NAME", "SIZE", "MODIFIED", "KEY").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(1)
			}
			return cellStyle
		})

	for _, r := range rows {
		name := DisplayName(r.Key)
		t.Row(
			KindIcon(name),
			name,
			humanize.IBytes(uint64(max(r.Size, 0))),
			humanize.Time(r.LastModified),
			r.Key,
		)
	}

	for _, line := range strings.Split(t.Render(), "\n") {
		if _, err := fmt.Fprintln(p.stream, p.indent+strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// DisplayName strips the key's directories and its epochMillis_ prefix.
func DisplayName(key string) string {
	base := path.Base(key)
	if _, rest, ok := strings.Cut(base, "_"); ok && rest != "" {
		return rest
	}
	return base
}

var kindIcons = map[string]string{
	"pdf": "📄", "txt": "📄", "rtf": "📄", "odt": "📄",
	"doc": "📝", "docx": "📝",
	"xls": "📊", "xlsx": "📊", "csv": "📊", "ods": "📊",
	"ppt": "📑", "pptx": "📑", "odp": "📑",
	"jpg": "🖼️", "jpeg": "🖼️", "png": "🖼️", "gif": "🖼️", "svg": "🖼️", "webp": "🖼️", "bmp": "🖼️", "heic": "🖼️",
	"mp3": "🎵", "wav": "🎵", "ogg": "🎵", "m4a": "🎵",
	"mp4": "🎥", "mov": "🎥", "avi": "🎥", "mkv": "🎥",
	"zip": "🗄️", "rar": "🗄️", "7z": "🗄️", "tar": "🗄️", "gz": "🗄️", "bz2": "🗄️",
	"js": "📜", "ts": "📜", "go": "📜", "py": "📜", "json": "📜", "html": "📜", "css": "📜",
}

// KindIcon returns an icon for the file's extension.
func KindIcon(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if icon, ok := kindIcons[ext]; ok {
		return icon
	}
	return "📄"
}

func withEmoji(emoji string) string {
	if emoji == "" {
		return ""
	}
	return emoji + " "
}
