package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Packages
	pb "github.com/cheggaaa/pb/v3"

	client "github.com/mutablelogic/go-dfs/pkg/client"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	version "github.com/mutablelogic/go-dfs/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type PingCommand struct{}

type ListCommand struct {
	Path    string   `arg:"" optional:"" help:"Path to list"`
	Filters []string `help:"Filter tokens (class names, extensions, all, folder)" default:"all"`
}

type SearchCommand struct {
	Query   string   `arg:"" help:"Substring to search file names for"`
	Filters []string `help:"Filter tokens" default:"all"`
}

type UploadCommand struct {
	File string `arg:"" type:"existingfile" help:"Local file to upload"`
	Name string `help:"Destination name; defaults to the file's base name"`
}

type DownloadCommand struct {
	Path   string `arg:"" help:"Stored file path"`
	Output string `help:"Local destination; defaults to the base name" short:"o"`
}

type PreviewCommand struct {
	Path   string `arg:"" help:"Stored file path"`
	Output string `help:"Local destination; defaults to stdout" short:"o"`
}

type DeleteCommand struct {
	Name string `arg:"" help:"Stored file name"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *PingCommand) Run(app App) error {
	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Ping(app.Context()); err != nil {
		return err
	}
	fmt.Println("pong")
	return nil
}

func (cmd *ListCommand) Run(app App) error {
	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	node, err := c.List(app.Context(), cmd.Path, cmd.Filters)
	if err != nil {
		return err
	}
	printTree(node, 0)
	return nil
}

func (cmd *SearchCommand) Run(app App) error {
	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	node, err := c.Search(app.Context(), cmd.Query, cmd.Filters)
	if err != nil {
		return err
	}
	for _, file := range node.Files {
		fmt.Printf("%s\t%d\t%s\n", file.Path, file.Size, file.ServerType)
	}
	return nil
}

func (cmd *UploadCommand) Run(app App) error {
	name := cmd.Name
	if name == "" {
		name = filepath.Base(cmd.File)
	}

	// First pass computes the digest, second pass streams the body
	f, err := os.Open(cmd.File)
	if err != nil {
		return err
	}
	sha, size, err := client.SHA256(f)
	f.Close()
	if err != nil {
		return err
	}
	if f, err = os.Open(cmd.File); err != nil {
		return err
	}
	defer f.Close()

	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	bar := pb.Full.Start64(size)
	defer bar.Finish()

	digest, err := c.Upload(app.Context(), name, size, sha, bar.NewProxyReader(f))
	if err != nil {
		return err
	}
	bar.Finish()
	fmt.Printf("uploaded %s (%d bytes, sha256=%s)\n", name, size, digest)
	return nil
}

func (cmd *DownloadCommand) Run(app App) error {
	output := cmd.Output
	if output == "" {
		output = filepath.Base(strings.TrimSuffix(cmd.Path, "/"))
	}

	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	bar := pb.Full.Start64(0)
	defer bar.Finish()

	info, err := c.Download(app.Context(), cmd.Path, bar.NewProxyWriter(f))
	if err != nil {
		os.Remove(output)
		return err
	}
	bar.SetTotal(info.Size)
	bar.Finish()
	fmt.Printf("downloaded %s (%d bytes, sha256=%s)\n", output, info.Size, info.SHA256)
	return nil
}

func (cmd *PreviewCommand) Run(app App) error {
	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	preview, err := c.Preview(app.Context(), cmd.Path)
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		_, err = os.Stdout.Write(preview.Data)
		return err
	}
	fmt.Printf("preview type %s, %d bytes\n", preview.Type, len(preview.Data))
	return os.WriteFile(cmd.Output, preview.Data, 0o644)
}

func (cmd *DeleteCommand) Run(app App) error {
	c, err := app.Connect()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Delete(app.Context(), cmd.Name); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", cmd.Name)
	return nil
}

func (cmd *VersionCommand) Run(app App) error {
	for key, value := range version.Map(execName()) {
		fmt.Printf("%s\t%s\n", key, value)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func printTree(node *schema.DirectoryNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s/\n", indent, node.Name)
	for _, file := range node.Files {
		fmt.Printf("%s  %s\t%d\n", indent, file.Name, file.Size)
	}
	for _, sub := range node.Subdirectories {
		printTree(sub, depth+1)
	}
}
