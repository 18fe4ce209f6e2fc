package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/window"
)

// Print the capabilities of the device the engine would run on.
func deviceInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	// The device needs a surface to pick an adapter against, so probe through
	// a hidden window.
	win, err := window.NewWindow(
		window.WithHidden(),
		window.WithTitle("lumen probe"),
		window.WithSize(64, 64),
	)
	if err != nil {
		return fmt.Errorf("failed to create probe window: %w", err)
	}
	defer win.Close()

	dev, err := gpu.NewWGPUDevice(
		gpu.WithSurfaceDescriptor(win.SurfaceDescriptor()),
		gpu.WithFallbackAdapter(ctx.Bool("fallback-adapter")),
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	defer dev.Destroy()

	// Configuring the surface resolves its preferred format.
	if err := dev.ConfigureSurface(gpu.SurfaceConfig{Width: 64, Height: 64, PresentMode: gpu.PresentModeFifo}); err != nil {
		return fmt.Errorf("failed to configure probe surface: %w", err)
	}

	info := dev.Info()
	limits := dev.Limits()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Backend", info.Backend})
	table.Append([]string{"Surface format", info.SurfaceFormat.String()})
	table.Append([]string{"Max bind groups", fmt.Sprintf("%d", limits.MaxBindGroups)})
	table.Append([]string{"Max 2D texture size", fmt.Sprintf("%d", limits.MaxTextureDimension2D)})
	table.Append([]string{"Uniform offset alignment", fmt.Sprintf("%d", limits.MinUniformBufferOffsetAlignment)})
	table.Render()

	logger.Noticef("device capabilities\n%s", buf.String())
	return nil
}
