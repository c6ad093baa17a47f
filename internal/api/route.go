// Package api exposes a read-only HTTP inspector over HX container files:
// a RegisterRoutes(app) entry point wiring handlers onto a fiber.App.
package api

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/haruki-hx/libhx/hx"
	"github.com/haruki-hx/libhx/internal/manifest"
	"github.com/haruki-hx/libhx/stream"
	"github.com/haruki-hx/libhx/wave"
)

// RegisterRoutes wires the inspector's handlers onto app. Every handler
// opens and parses its own container per request; nothing is cached in
// memory across requests beyond the on-disk manifest sidecar.
func RegisterRoutes(app *fiber.App) {
	app.Get("/healthz", healthzHandler)
	app.Get("/containers/:file/info", infoHandler)
	app.Get("/containers/:file/list", listHandler)
	app.Get("/containers/:file/extract/:cuuid", extractHandler)
}

func healthzHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func openContainer(filename string) (*hx.Container, error) {
	ext := filename[len(filename)-3:]
	variant, err := hx.VariantFromExtension(ext)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return hx.Read(data, variant)
}

func infoHandler(c *fiber.Ctx) error {
	filename := c.Params("file")
	container, err := openContainer(filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"variant":      container.Variant.String(),
		"index_offset": container.IndexOffset,
		"entry_count":  len(container.Entries),
	})
}

func listHandler(c *fiber.Ctx) error {
	filename := c.Params("file")
	container, err := openContainer(filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	m, err := manifest.LoadOrBuild(filename, func() (*manifest.Manifest, error) {
		return manifest.FromContainer(container), nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	body, err := m.MarshalJSON()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}

func extractHandler(c *fiber.Ctx) error {
	filename := c.Params("file")
	cuuidParam := c.Params("cuuid")

	cuuid, err := strconv.ParseUint(cuuidParam, 16, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid cuuid"})
	}

	container, err := openContainer(filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	entry, ok := container.Lookup(cuuid)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cuuid not found"})
	}
	wf, ok := entry.Body.(*hx.WaveFileIdObj)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "entry is not a wave-file"})
	}

	if wf.External() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "external stream payload not available"})
	}

	data := wf.Data
	bitsPerSample := wf.Wave.BitsPerSample
	if wf.Wave.Format != hx.FormatPCM {
		converted, err := hx.Convert(wf.Data, wf.Wave.Format, hx.FormatPCM, int(wf.Wave.NumChannels), wf.Wave.SampleRate, container.Variant.Endian())
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		}
		data = converted
		bitsPerSample = 16
		if container.Variant.Endian() == stream.BigEndian {
			// Convert emits samples in the container's byte order; WAV PCM is little-endian.
			for i := 0; i+1 < len(data); i += 2 {
				data[i], data[i+1] = data[i+1], data[i]
			}
		}
	}

	out := wave.WriteFile(wf.Wave.SampleRate, wf.Wave.NumChannels, bitsPerSample, data)
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Status(fiber.StatusOK).Send(out)
}
