// SPDX-License-Identifier: EPL-2.0

// Command mixline mixes audio files into a single 16-bit PCM WAV file.
//
//	mixline -o mix.wav -rate 48000 -channels 2 voice.wav music.mp3
//
// Inputs may be WAV, AIFF, MP3 or Ogg Vorbis, in any combination of
// sample rates and channel counts; everything is converted to the
// output format before summation.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mixline/mixline"
	"github.com/mixline/mixline/formats/wav"
	"github.com/mixline/mixline/pcm"
)

var (
	output   = flag.String("o", "mix.wav", "output WAV file path")
	rate     = flag.Int("rate", 48000, "output sample rate in Hz")
	channels = flag.Int("channels", 2, "output channel count")
	verbose  = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(),
			"usage: mixline [-o out.wav] [-rate hz] [-channels n] input...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "mixline:", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync()

	if err := run(logger, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "mixline:", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, paths []string) error {
	if *rate <= 0 || *channels <= 0 {
		return fmt.Errorf("invalid output format: %d Hz, %d channels", *rate, *channels)
	}

	reg := mixline.DefaultRegistry()

	var (
		files   []*os.File
		readers []pcm.Reader
	)
	// Decoders stream, so the files stay open until the mix is done.
	defer func() {
		for _, r := range readers {
			r.Close()
		}
		for _, f := range files {
			f.Close()
		}
	}()

	for _, path := range paths {
		key := formatKey(path)
		dec, ok := reg.Get(key)
		if !ok {
			return fmt.Errorf("unsupported format %q: %s", key, path)
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		files = append(files, f)

		r, err := dec.Decode(f)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		readers = append(readers, r)
		logger.Info("input opened",
			zap.String("path", path),
			zap.String("format", key),
			zap.Int("sample_rate", r.SampleRate()),
			zap.Int("channels", r.Channels()))
	}

	pcm16, err := mixline.MixToPCM16(readers, *rate, *channels)
	if err != nil {
		return err
	}
	logger.Info("mix complete",
		zap.Int("inputs", len(readers)),
		zap.Int("frames", len(pcm16)/(*channels)))

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := wav.WritePCM16(out, *rate, *channels, pcm16); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", *output, err)
	}
	return out.Close()
}

// formatKey maps a file extension to its decoder registry key.
func formatKey(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "ogg", "oga":
		return "vorbis"
	case "aif":
		return "aiff"
	default:
		return ext
	}
}
