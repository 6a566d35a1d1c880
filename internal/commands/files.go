package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bucketdrop/service/internal/client"
	"github.com/bucketdrop/service/internal/console"
	"github.com/bucketdrop/service/internal/trace"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

type PingCmd struct{}

func (cmd *PingCmd) Run(ctx context.Context, globals *Globals) error {
	resp, err := globals.Client.Test(ctx)
	if err != nil {
		return fmt.Errorf("backend not reachable: %w", err)
	}
	globals.Printer.Success("✅", "%s (%s)", resp.Message, resp.Timestamp.Format("15:04:05"))
	return nil
}

type UploadCmd struct {
	Path string `arg:"" help:"File to upload." type:"existingfile"`
	Max  int64  `flag:"max-bytes" help:"Client-side size limit in bytes; 0 uses the 10 MiB server default."`
}

func (cmd *UploadCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, span := trace.Start(ctx, "UploadCmdRun")
	defer span.End()

	limit := cmd.Max
	if limit <= 0 {
		limit = client.MaxUploadBytes
	}

	f, info, err := readUpload(cmd.Path, limit)
	if err != nil {
		return trace.Fail(span, err)
	}
	defer f.Close()

	span.SetAttributes(attribute.String("path", cmd.Path), attribute.Int64("size", info.Size()))
	log.Debug().Str("path", cmd.Path).Int64("size", info.Size()).Msg("uploading file")

	resp, err := globals.Client.Upload(ctx, filepath.Base(cmd.Path), f)
	if err != nil {
		return trace.Fail(span, fmt.Errorf("upload failed: %w", err))
	}

	globals.Printer.Success("⬆️", "%s: %s (%s)", resp.Message, console.DisplayName(resp.Key), humanize.IBytes(uint64(resp.Size)))
	globals.Printer.Info("🔗", "%s", resp.FileURL)
	fmt.Fprintln(globals.stdout(), resp.Key)
	return nil
}

type FilesCmd struct{}

func (cmd *FilesCmd) Run(ctx context.Context, globals *Globals) error {
	files, err := globals.Client.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		globals.Printer.Info("📭", "No files uploaded yet")
		return nil
	}

	rows := make([]console.Row, len(files))
	var total int64
	for i, f := range files {
		rows[i] = console.Row{Key: f.Key, Size: f.Size, LastModified: f.LastModified}
		total += f.Size
	}
	if err := globals.Printer.Files(rows); err != nil {
		return err
	}
	globals.Printer.Info("", "%d files, %s", len(files), humanize.IBytes(uint64(total)))
	return nil
}

type RmCmd struct {
	Key string `arg:"" help:"Key of the file to delete."`
}

func (cmd *RmCmd) Run(ctx context.Context, globals *Globals) error {
	resp, err := globals.Client.DeleteFile(ctx, cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", cmd.Key, err)
	}
	globals.Printer.Success("🗑️", "%s: %s", resp.Message, resp.Key)
	return nil
}
