package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/fcrepo/client"
	"github.com/c360studio/fcrepo/graph"
)

func pushCmd(opts *cliOptions) *cobra.Command {
	var (
		path     string
		slug     string
		force    bool
		mimeType string
		include  []string
		exclude  []string
		watch    bool

		title       string
		description string
		creator     string
	)

	cmd := &cobra.Command{
		Use:   "push <parent> [source...]",
		Short: "Upload containers and binaries",
		Long: `Upload to a container. Sources may be local files, directories, or
http(s) URLs. Directories are walked and each matching file is uploaded
as a binary at its relative path.

With --title (and friends) and no sources, a container with Dublin Core
metadata is created instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.newRepository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			parent := resolveURI(repo, args[0])
			sources := args[1:]

			// Container creation with DC metadata.
			if title != "" {
				md := map[string]string{"title": title}
				if description != "" {
					md["description"] = description
				}
				if creator != "" {
					md["creator"] = creator
				}
				res, err := repo.AddContainer(ctx, parent, graph.FromDC(md),
					client.CreateOptions{Slug: slug, Path: path, Force: force})
				if err != nil {
					return err
				}
				fmt.Println(res.URI)
				parent = res.URI
			} else if len(sources) == 0 {
				return fmt.Errorf("nothing to push: no sources and no --title")
			}

			p := &pusher{
				repo:    repo,
				parent:  parent,
				force:   force,
				mime:    mimeType,
				include: include,
				exclude: exclude,
			}

			for _, src := range sources {
				info, err := os.Stat(src)
				switch {
				case err == nil && info.IsDir():
					if err := p.pushDir(ctx, src); err != nil {
						return err
					}
				default:
					res, err := repo.AddBinary(ctx, parent, client.SourceFromString(src),
						client.BinaryOptions{Slug: slug, Path: path, Force: force, MIME: mimeType})
					if err != nil {
						return err
					}
					fmt.Println(res.URI)
				}
			}

			if watch {
				return p.watch(ctx, sources)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Deterministic path for the new resource, relative to parent")
	cmd.Flags().StringVar(&slug, "slug", "", "Hint for the server-assigned path segment")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an occupied path (delete and obliterate first)")
	cmd.Flags().StringVar(&mimeType, "mime", "", "Override the detected MIME type")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns of files to push from directories (default all)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns of files to skip")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch directory sources and re-push changed files")
	cmd.Flags().StringVar(&title, "title", "", "Create a container with this Dublin Core title")
	cmd.Flags().StringVar(&description, "description", "", "Dublin Core description for --title")
	cmd.Flags().StringVar(&creator, "creator", "", "Dublin Core creator for --title")

	return cmd
}

// pusher uploads files from directory trees into a parent container.
type pusher struct {
	repo    *client.Repository
	parent  string
	force   bool
	mime    string
	include []string
	exclude []string
}

// matches applies the include/exclude globs to a slash-separated relative
// path.
func (p *pusher) matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(p.include) == 0 {
		return true
	}
	for _, pattern := range p.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// pushDir walks a directory and uploads each matching file as a binary at
// its relative path under the parent.
func (p *pusher) pushDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		if !p.matches(rel) {
			return nil
		}
		return p.pushFile(ctx, dir, file)
	})
}

// pushFile uploads one file at its path relative to root, forcing
// overwrite so re-pushes succeed.
func (p *pusher) pushFile(ctx context.Context, root, file string) error {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return err
	}
	res, err := p.repo.AddBinary(ctx, p.parent, client.FileSource(file),
		client.BinaryOptions{Path: filepath.ToSlash(rel), Force: true, MIME: p.mime})
	if err != nil {
		return err
	}
	fmt.Println(res.URI)
	return nil
}

// watch re-pushes files in directory sources as they change, until
// interrupted.
func (p *pusher) watch(ctx context.Context, sources []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	roots := make(map[string]string) // watched dir -> source root
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			continue
		}
		// fsnotify doesn't recurse; watch every subdirectory.
		err = filepath.WalkDir(src, func(dir string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			if err := watcher.Add(dir); err != nil {
				return err
			}
			roots[dir] = src
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", src, err)
		}
	}
	if len(roots) == 0 {
		return fmt.Errorf("--watch requires at least one directory source")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	fmt.Fprintln(os.Stderr, "watching for changes (ctrl-c to stop)")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sig:
			return nil
		case err := <-watcher.Errors:
			return fmt.Errorf("watch: %w", err)
		case event := <-watcher.Events:
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			root := roots[filepath.Dir(event.Name)]
			if root == "" {
				continue
			}
			rel, err := filepath.Rel(root, event.Name)
			if err != nil || !p.matches(rel) {
				continue
			}
			if err := p.pushFile(ctx, root, event.Name); err != nil {
				fmt.Fprintf(os.Stderr, "push %s: %v\n", event.Name, err)
			}
		}
	}
}
