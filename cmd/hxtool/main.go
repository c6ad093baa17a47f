// Command hxtool is the CLI front-end for reading HX container files:
// summarizing them, listing their entries, and extracting wave-file
// entries to standalone .wav files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/haruki-hx/libhx/hx"
	"github.com/haruki-hx/libhx/internal/config"
	"github.com/haruki-hx/libhx/internal/hxlog"
	"github.com/haruki-hx/libhx/internal/manifest"
	"github.com/haruki-hx/libhx/stream"
	"github.com/haruki-hx/libhx/wave"
)

// specialArchiveNames matches the shared archive filenames the reference
// CLI treats specially; the library itself remains filename-agnostic.
var specialArchiveNames = regexp2.MustCompile(`(?i)^(rayman3\.hst|data\.hst)$`, regexp2.None)

func isSpecialArchive(name string) bool {
	matched, _ := specialArchiveNames.MatchString(filepath.Base(name))
	return matched
}

func main() {
	info := flag.Bool("info", false, "print a summary of the container")
	list := flag.Bool("list", false, "list every entry in the container")
	extractAll := flag.Bool("extract-all", false, "extract every wave-file entry as a .wav")
	extractCUUID := flag.String("extract", "", "extract a single entry by hex CUUID")
	remote := flag.String("remote", "", "fetch the input file from this URL before processing")
	variantOverride := flag.String("variant", "", "force a variant (HXD, HXC, HX2, HXG, HXX, HX3) instead of inferring from extension")
	flag.Parse()

	cfg := config.Load("libhx.yaml")
	logger := hxlog.NewLogger("hxtool", cfg.LogLevel, os.Stderr)
	errorCallback := func(msg string) { logger.Errorf("%s", msg) }

	args := flag.Args()
	if len(args) < 1 {
		errorCallback("missing input filename")
		os.Exit(2)
	}
	filename := args[0]

	var data []byte
	var err error
	if *remote != "" {
		data, err = fetchRemote(*remote)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		errorCallback(fmt.Sprintf("io failed: %v", err))
		os.Exit(1)
	}

	variantName := *variantOverride
	if variantName == "" {
		if override, ok := cfg.VariantOverrideFor(strings.TrimPrefix(filepath.Ext(filename), ".")); ok {
			variantName = override
		}
	}

	variant, err := resolveVariant(variantName, filename)
	if err != nil {
		errorCallback(err.Error())
		os.Exit(1)
	}

	if isSpecialArchive(filename) {
		logger.Infof("%s recognized as a shared archive file", filepath.Base(filename))
	}

	container, err := hx.Read(data, variant)
	if err != nil {
		errorCallback(err.Error())
		os.Exit(1)
	}

	switch {
	case *info:
		printInfo(container)
	case *list:
		printList(container)
	case *extractAll:
		extractAllWaves(container, cfg.OutputDir, errorCallback)
	case *extractCUUID != "":
		extractOne(container, *extractCUUID, cfg.OutputDir, errorCallback)
	default:
		printInfo(container)
	}
}

func resolveVariant(name, filename string) (hx.Variant, error) {
	if name != "" {
		switch strings.ToUpper(name) {
		case "HXD":
			return hx.HXD, nil
		case "HXC":
			return hx.HXC, nil
		case "HX2":
			return hx.HX2, nil
		case "HXG":
			return hx.HXG, nil
		case "HXX":
			return hx.HXX, nil
		case "HX3":
			return hx.HX3, nil
		}
	}
	return hx.VariantFromExtension(filepath.Ext(filename))
}

func printInfo(c *hx.Container) {
	fmt.Printf("variant: %s\n", c.Variant)
	fmt.Printf("index offset: %d\n", c.IndexOffset)
	fmt.Printf("entries: %d\n", len(c.Entries))
}

func printList(c *hx.Container) {
	m := manifest.FromContainer(c)
	body, err := m.MarshalJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render entry list: %v\n", err)
		return
	}
	fmt.Println(string(body))
}

func extractAllWaves(c *hx.Container, outDir string, errorCallback func(string)) {
	for _, e := range c.Entries {
		wf, ok := e.Body.(*hx.WaveFileIdObj)
		if !ok {
			continue
		}
		if err := writeWaveEntry(wf, e.CUUID, c.Variant, outDir); err != nil {
			errorCallback(err.Error())
		}
	}
}

func extractOne(c *hx.Container, cuuidHex, outDir string, errorCallback func(string)) {
	cuuid, err := strconv.ParseUint(cuuidHex, 16, 64)
	if err != nil {
		errorCallback(fmt.Sprintf("invalid cuuid %q", cuuidHex))
		return
	}
	entry, ok := c.Lookup(cuuid)
	if !ok {
		errorCallback(fmt.Sprintf("cuuid %s not found", cuuidHex))
		return
	}
	wf, ok := entry.Body.(*hx.WaveFileIdObj)
	if !ok {
		errorCallback(fmt.Sprintf("entry %s is not a wave-file", cuuidHex))
		return
	}
	if err := writeWaveEntry(wf, cuuid, c.Variant, outDir); err != nil {
		errorCallback(err.Error())
	}
}

// writeWaveEntry writes a wave-file entry's audio as a standalone .wav,
// decoding DSP/PSX-ADPCM streams to PCM first (per hx.Convert) so the
// output is always playable PCM, never raw compressed bytes mislabeled
// as such.
func writeWaveEntry(wf *hx.WaveFileIdObj, cuuid uint64, variant hx.Variant, outDir string) error {
	if wf.External() {
		return fmt.Errorf("entry %016x: external stream payload not available (filename %q)", cuuid, wf.Filename)
	}
	data := wf.Data
	bitsPerSample := wf.Wave.BitsPerSample
	if wf.Wave.Format != hx.FormatPCM {
		converted, err := hx.Convert(wf.Data, wf.Wave.Format, hx.FormatPCM, int(wf.Wave.NumChannels), wf.Wave.SampleRate, variant.Endian())
		if err != nil {
			return err
		}
		data = converted
		bitsPerSample = 16
		if variant.Endian() == stream.BigEndian {
			// Convert emits samples in the container's byte order; WAV PCM is little-endian.
			for i := 0; i+1 < len(data); i += 2 {
				data[i], data[i+1] = data[i+1], data[i]
			}
		}
	}
	out := wave.WriteFile(wf.Wave.SampleRate, wf.Wave.NumChannels, bitsPerSample, data)
	name := fmt.Sprintf("%016x.wav", cuuid)
	return os.WriteFile(filepath.Join(outDir, name), out, 0o644)
}
