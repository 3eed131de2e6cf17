package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/pray"
	"github.com/bodgit/pray/cache"
	"github.com/bodgit/pray/library"
	"github.com/bodgit/pray/sprite"
	"github.com/bodgit/pray/sprite/animation"
	"github.com/bodgit/pray/sprite/blk"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

const defaultCache = "pray.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func readArchive(file string) (*pray.Archive, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return pray.Decode(b)
}

func inspect(c *cli.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)

	for _, file := range c.Args().Slice() {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}

		headers, err := pray.Headers(b)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s:\n", file)
		fmt.Fprintln(w, "ID\tNAME\tSTORED\tSIZE\tCOMPRESSED")
		for _, h := range headers {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n", h.ID, h.Name, h.CompressedSize, h.Size, h.Compressed)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if c.Bool("verbose") {
			a, err := pray.Decode(b)
			if err != nil {
				return err
			}
			spew.Fdump(os.Stdout, a.Tags())
		}
	}

	return nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return err
	}
	return f.Close()
}

func writeGIF(file string, frames []*image.RGBA) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := animation.Encode(f, frames, animation.DefaultDelay); err != nil {
		return err
	}
	return f.Close()
}

func exportSprite(c *cli.Context, sc *cache.Cache, filename string, b []byte) error {
	frames, err := sc.Sprite(filename, b)
	if err != nil {
		return err
	}

	dir := c.String("output")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	if c.Bool("assemble") && sprite.Extension(filename) == "blk" {
		cfg, err := blk.DecodeConfig(b)
		if err != nil {
			return err
		}
		m, err := blk.Assemble(frames, cfg.Cols, cfg.Rows)
		if err != nil {
			return err
		}
		return writePNG(filepath.Join(dir, base+".png"), m)
	}

	for i, m := range frames {
		// PNG cannot hold an empty image
		if m.Rect.Empty() {
			continue
		}
		if err := writePNG(filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, i)), m); err != nil {
			return err
		}
	}

	if c.Bool("gif") {
		return writeGIF(filepath.Join(dir, base+".gif"), frames)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pray"
	app.Usage = "Creatures PRAY agent archive and sprite utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"PRAY_CACHE"},
			Value:   filepath.Join(cwd, defaultCache),
			Usage:   "path to sprite cache",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "inspect",
			Usage:       "List the blocks in archives",
			Description: "With --verbose the decoded blocks are dumped as well.",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := inspect(c); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "extract",
			Usage:       "Extract an archive into a directory",
			Description: "Every file is written out along with a manifest describing the blocks.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   ".",
					Usage:   "output directory",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a, err := readArchive(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := extract(a, c.String("output")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "pack",
			Usage:       "Build an archive from an extracted directory",
			Description: "The directory must contain a manifest as written by extract.",
			ArgsUsage:   "DIRECTORY FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := pack(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := ioutil.WriteFile(c.Args().Get(1), b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "repack",
			Usage:       "Decode and encode an archive again",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a, err := readArchive(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				b, err := a.MarshalBinary()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := ioutil.WriteFile(c.Args().Get(1), b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "sprite",
			Usage:       "Convert sprites to PNG",
			Description: "FILE is either a sprite or an archive, in which case every sprite inside it is converted.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   ".",
					Usage:   "output directory",
				},
				&cli.BoolFlag{
					Name:  "gif",
					Usage: "also write an animated GIF of all frames",
				},
				&cli.BoolFlag{
					Name:  "assemble",
					Usage: "write a BLK background as a single image",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				sc, err := cache.New(c.String("cache"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer sc.Close()

				file := c.Args().First()
				if !library.IsArchive(file) {
					b, err := ioutil.ReadFile(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					if err := exportSprite(c, sc, file, b); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				a, err := readArchive(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, f := range a.Files {
					if !sprite.IsSprite(f.Filename()) {
						continue
					}
					if err := exportSprite(c, sc, f.Filename(), f.Data); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Check every archive under a directory",
			Description: "Sprites found along the way are added to the cache.",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of archives to decode at once",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				sc, err := cache.New(c.String("cache"), logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer sc.Close()

				l := library.New(sc, logger)
				l.Workers = c.Int("workers")

				results, err := l.Scan(context.Background(), c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, r := range results {
					fmt.Printf("%s: %d blocks, %d files, %d frames\n", r.Path, len(r.Tags), len(r.Files), r.Frames)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
