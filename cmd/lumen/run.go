package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
	"github.com/Carmen-Shannon/lumen-go/engine/window"
)

// Render the procedural demo scene in a window.
func runDemo(ctx *cli.Context) error {
	setupLogging(ctx)

	presentMode, err := parsePresentMode(ctx.String("present-mode"))
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(ctx.String("title")),
		window.WithSize(ctx.Int("width"), ctx.Int("height")),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	dev, err := gpu.NewWGPUDevice(
		gpu.WithSurfaceDescriptor(win.SurfaceDescriptor()),
		gpu.WithFallbackAdapter(ctx.Bool("fallback-adapter")),
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithDevice(dev),
		engine.WithProfiling(ctx.Bool("profile")),
		engine.WithTickRate(60),
		engine.WithFramesInFlight(ctx.Int("frames-in-flight")),
		engine.WithPresentMode(presentMode),
		engine.WithRenderFrameLimit(ctx.Float64("frame-limit")),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	sc, cam, err := buildDemoScene(eng.Registry(), ctx.Int("grid"))
	if err != nil {
		return fmt.Errorf("failed to build demo scene: %w", err)
	}
	eng.SetScene(sc)

	win.SetScrollCallback(func(delta float32) {
		cam.Controller().Zoom(delta)
	})
	win.SetKeyDownCallback(func(key common.Key) {
		if key == common.KeyEsc {
			eng.Quit()
		}
	})

	logger.Noticef("rendering %d entities, scroll to zoom, Esc to quit", sc.EntityCount())
	eng.Run()
	return nil
}

// buildDemoScene assembles the sphere-grid demo: a checkered floor, a grid of
// spheres sweeping metallic front to back and roughness left to right, a sun
// with two colored point lights, and an orbit camera.
//
// Parameters:
//   - reg: the registry that owns the generated meshes and textures
//   - grid: spheres per row and column (clamped to a minimum of 1)
//
// Returns:
//   - scene.Scene: the populated scene
//   - camera.Camera: the orbit camera, for input wiring
//   - error: an error if any resource registration failed
func buildDemoScene(reg registry.Registry, grid int) (scene.Scene, camera.Camera, error) {
	if grid < 1 {
		grid = 1
	}
	const spacing = 2.5

	sphereData := common.SphereMesh("sphere", 1.0, 24, 32)
	sphereData.MaxInstances = uint32(grid * grid)
	sphereMesh, err := reg.RegisterMesh(sphereData)
	if err != nil {
		return nil, nil, err
	}

	extent := float32(grid)*spacing/2 + 4
	floorData := common.PlaneMesh("floor", extent, float32(grid)+3)
	floorMesh, err := reg.RegisterMesh(floorData)
	if err != nil {
		return nil, nil, err
	}

	checker, err := reg.RegisterTexturePixels("floor_albedo", common.CheckerImage(
		256, 32,
		[4]byte{205, 205, 210, 255},
		[4]byte{55, 55, 62, 255},
	))
	if err != nil {
		return nil, nil, err
	}

	sky, err := reg.RegisterTexturePixels("sky_env", common.VerticalGradientImage(
		64, 64,
		[4]byte{96, 148, 235, 255},
		[4]byte{244, 236, 220, 255},
	))
	if err != nil {
		return nil, nil, err
	}

	sc := scene.NewScene()

	floor := sc.CreateEntity()
	_ = sc.SetMesh(floor, scene.MeshRefFor(floorMesh, floorData))
	_ = sc.SetMaterials(floor, material.NewMaterial(
		material.WithName("floor"),
		material.WithAlbedoTexture(checker),
		material.WithRoughness(0.85),
	))

	for row := 0; row < grid; row++ {
		for col := 0; col < grid; col++ {
			metallic := float32(0)
			roughness := float32(0.5)
			if grid > 1 {
				metallic = float32(row) / float32(grid-1)
				roughness = 0.05 + 0.95*float32(col)/float32(grid-1)
			}

			ball := sc.CreateEntity()
			_ = sc.SetMesh(ball, scene.MeshRefFor(sphereMesh, sphereData))
			_ = sc.SetMaterials(ball, material.NewMaterial(
				material.WithName(fmt.Sprintf("pbr_m%d_r%d", row, col)),
				material.WithBaseColor([4]float32{0.82, 0.26, 0.16, 1.0}),
				material.WithMetallic(metallic),
				material.WithRoughness(roughness),
			))
			_ = sc.SetTransform(ball, scene.Transform{
				Position: [3]float32{
					(float32(col) - float32(grid-1)/2) * spacing,
					1,
					(float32(row) - float32(grid-1)/2) * spacing,
				},
				Scale: [3]float32{1, 1, 1},
			})
		}
	}

	cam := camera.NewCamera(
		camera.WithNear(0.1),
		camera.WithFar(200),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(float32(grid)*spacing*1.3),
			camera.WithControllerTarget(0, 1, 0),
			camera.WithElevation(0.35),
			camera.WithAzimuth(0.65),
			camera.WithRadiusBounds(3, 120),
		)),
	)
	eye := sc.CreateEntity()
	_ = sc.SetCamera(eye, cam)

	sunEnt := sc.CreateEntity()
	_ = sc.SetLight(sunEnt, light.NewLight(light.Directional,
		light.WithDirection(-0.4, -1, -0.3),
		light.WithColor(1.0, 0.96, 0.9),
		light.WithIntensity(2.2),
	))
	_ = sc.SetAmbientLight(sunEnt, 0.04, 0.045, 0.06)
	_ = sc.SetEnvironment(sunEnt, sky)

	keyEnt := sc.CreateEntity()
	_ = sc.SetLight(keyEnt, light.NewLight(light.Point,
		light.WithColor(1.0, 0.8, 0.6),
		light.WithIntensity(8),
		light.WithRange(30),
	))
	_ = sc.SetTransform(keyEnt, scene.Transform{Position: [3]float32{7, 5, 5}, Scale: [3]float32{1, 1, 1}})

	fillEnt := sc.CreateEntity()
	_ = sc.SetLight(fillEnt, light.NewLight(light.Point,
		light.WithColor(0.4, 0.6, 1.0),
		light.WithIntensity(5),
		light.WithRange(30),
	))
	_ = sc.SetTransform(fillEnt, scene.Transform{Position: [3]float32{-8, 4, -6}, Scale: [3]float32{1, 1, 1}})

	return sc, cam, nil
}

// parsePresentMode maps a present-mode flag value onto the gpu constant.
//
// Parameters:
//   - s: the flag value (fifo, mailbox or immediate)
//
// Returns:
//   - gpu.PresentMode: the parsed mode
//   - error: an error listing the valid values when s matches none
func parsePresentMode(s string) (gpu.PresentMode, error) {
	switch s {
	case "fifo", "":
		return gpu.PresentModeFifo, nil
	case "mailbox":
		return gpu.PresentModeMailbox, nil
	case "immediate":
		return gpu.PresentModeImmediate, nil
	default:
		return gpu.PresentModeFifo, fmt.Errorf("unknown present mode %q (want fifo, mailbox or immediate)", s)
	}
}
