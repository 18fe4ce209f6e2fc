package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "deferred PBR rendering engine tools"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "render a procedural demo scene",
			Description: `
Open a window and render a grid of PBR spheres over a checkered floor through
the full deferred pipeline: geometry into the G-buffer, one lighting pass over
every scene light, and a tone mapping pass onto the swapchain.

The scene is generated procedurally, so the command needs no asset files.`,
			Action: runDemo,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1600,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 900,
					Usage: "window height",
				},
				cli.StringFlag{
					Name:  "title",
					Value: "Lumen",
					Usage: "window title",
				},
				cli.IntFlag{
					Name:  "grid",
					Value: 5,
					Usage: "spheres per row and column",
				},
				cli.IntFlag{
					Name:  "frames-in-flight",
					Value: 2,
					Usage: "frames the CPU may record ahead of the GPU",
				},
				cli.StringFlag{
					Name:  "present-mode",
					Value: "fifo",
					Usage: "presentation pacing: fifo, mailbox or immediate",
				},
				cli.Float64Flag{
					Name:  "frame-limit",
					Value: 0,
					Usage: "cap the render loop at this many frames per second (0 = uncapped)",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame statistics once per second",
				},
				cli.BoolFlag{
					Name:  "fallback-adapter",
					Usage: "force the software fallback adapter",
				},
			},
		},
		{
			Name:  "info",
			Usage: "print device capabilities",
			Description: `
Create a device against a hidden window surface and print the adapter backend,
surface format and the limits the engine sizes itself against.`,
			Action: deviceInfo,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "fallback-adapter",
					Usage: "force the software fallback adapter",
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
