package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bucketdrop/service/internal/auth"
	"github.com/bucketdrop/service/internal/client"
	"github.com/dustin/go-humanize"
)

type PostsCmd struct {
	List   PostsListCmd   `cmd:"" default:"1" help:"list posts, newest first."`
	Get    PostsGetCmd    `cmd:"" help:"show one post."`
	Create PostsCreateCmd `cmd:"" help:"publish a post with an image."`
	Rm     PostsRmCmd     `cmd:"" help:"delete a post."`
}

type PostsListCmd struct{}

func (cmd *PostsListCmd) Run(ctx context.Context, globals *Globals) error {
	posts, err := globals.Client.Posts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		globals.Printer.Info("📭", "No posts yet")
		return nil
	}
	for _, p := range posts {
		globals.Printer.Info("📰", "%s  %s  (%s)", p.ID, p.Title, humanize.Time(p.CreatedAt))
	}
	return nil
}

type PostsGetCmd struct {
	ID string `arg:"" help:"Post id."`
}

func (cmd *PostsGetCmd) Run(ctx context.Context, globals *Globals) error {
	p, err := globals.Client.Post(ctx, cmd.ID)
	if errors.Is(err, client.ErrPostNotFound) {
		globals.Printer.Warn("🔎", "Post %s not found", cmd.ID)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}

	globals.Printer.Info("📰", "%s", p.Title)
	globals.Printer.Info("", "%s", p.Content)
	globals.Printer.Info("🖼️", "%s", p.ImageURL)
	globals.Printer.Info("🕒", "%s", p.CreatedAt.Format(time.RFC3339))
	return nil
}

type PostsCreateCmd struct {
	Title   string `flag:"title" help:"Post title." required:"true"`
	Content string `flag:"content" help:"Post body." required:"true"`
	Image   string `flag:"image" help:"Image file." required:"true" type:"existingfile"`
}

func (cmd *PostsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	f, _, err := readUpload(cmd.Image, client.MaxUploadBytes)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := globals.Client.CreatePost(ctx, client.CreatePostReq{
		Title:     cmd.Title,
		Content:   cmd.Content,
		ImageName: filepath.Base(cmd.Image),
		Image:     f,
	})
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	globals.Printer.Success("✅", "Published %q", p.Title)
	fmt.Fprintln(globals.stdout(), p.ID)
	return nil
}

type PostsRmCmd struct {
	ID string `arg:"" help:"Post id."`
}

func (cmd *PostsRmCmd) Run(ctx context.Context, globals *Globals) error {
	resp, err := globals.Client.DeletePost(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	globals.Printer.Success("🗑️", "%s: %s", resp.Message, cmd.ID)
	return nil
}

type TokenCmd struct {
	Secret  string        `flag:"secret" help:"HMAC secret configured on the server." env:"AUTH_JWT_SECRET" required:"true"`
	Subject string        `flag:"subject" help:"Token subject." default:"dropctl"`
	TTL     time.Duration `flag:"ttl" help:"Token lifetime." default:"720h"`
}

func (cmd *TokenCmd) Run(globals *Globals) error {
	tok, err := auth.Issue(cmd.Secret, cmd.Subject, cmd.TTL)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintln(globals.stdout(), tok)
	return nil
}
