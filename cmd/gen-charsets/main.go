// Command gen-charsets writes the standard charset resources to a directory
// so they can be edited and loaded with --fonts or NewDirLoader.
//
//	gen-charsets --out chars --charsets 8x12,8x16
package main

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/retrocon"
	"github.com/ryanlewis/retrocon/internal/fontgen"
)

// Manifest describes the generated resources.
type Manifest struct {
	Generated string          `yaml:"generated"`
	Generator string          `yaml:"generator"`
	Charsets  []ManifestEntry `yaml:"charsets"`
}

// ManifestEntry describes one resource file.
type ManifestEntry struct {
	Charset        string `yaml:"charset"`
	File           string `yaml:"file"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Size           int    `yaml:"size"`
	ChecksumSHA256 string `yaml:"checksum_sha256"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("gen-charsets", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.StringP("out", "o", "chars", "Output directory")
	charsets := fs.StringSliceP("charsets", "c", nil, "Charsets to generate, comma-separated or repeated (default: all)")
	manifest := fs.Bool("manifest", true, "Write manifest.yaml next to the fonts")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}

	logger := log.New(stderr, "", 0)
	list, err := parseCharsets(strings.Join(*charsets, " "))
	if err != nil {
		logger.Printf("Invalid charset list: %v", err)
		return 1
	}
	m, err := generate(*outDir, list, logger)
	if err != nil {
		logger.Printf("Failed to generate charsets: %v", err)
		return 1
	}
	if *manifest {
		if err := writeManifest(filepath.Join(*outDir, "manifest.yaml"), m); err != nil {
			logger.Printf("Failed to write manifest: %v", err)
			return 1
		}
	}
	logger.Printf("Generated %d charsets in %s", len(m.Charsets), *outDir)
	return 0
}

func parseCharsets(s string) ([]retrocon.Charset, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return retrocon.Charsets(), nil
	}
	list := make([]retrocon.Charset, 0, len(fields))
	for _, f := range fields {
		cs, err := retrocon.ParseCharset(f)
		if err != nil {
			return nil, err
		}
		list = append(list, cs)
	}
	return list, nil
}

// generate writes one resource per charset into dir. Fonts are generated
// in parallel; the manifest keeps the order of list.
func generate(dir string, list []retrocon.Charset, logger *log.Logger) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	m := &Manifest{
		Generated: time.Now().UTC().Format("2006-01-02"),
		Generator: "gen-charsets",
		Charsets:  make([]ManifestEntry, len(list)),
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cs := range list {
		g.Go(func() error {
			entry, err := writeCharset(dir, cs, logger)
			if err != nil {
				return err
			}
			m.Charsets[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func writeCharset(dir string, cs retrocon.Charset, logger *log.Logger) (ManifestEntry, error) {
	w, h := cs.Size()
	data, err := fontgen.Bytes(w, h)
	if err != nil {
		return ManifestEntry{}, err
	}
	file := cs.ResourceName()
	if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
		return ManifestEntry{}, fmt.Errorf("failed to write %s: %w", file, err)
	}
	logger.Printf("Wrote %s (%d bytes)", file, len(data))

	return ManifestEntry{
		Charset:        cs.String(),
		File:           file,
		Width:          w,
		Height:         h,
		Size:           len(data),
		ChecksumSHA256: fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

func writeManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
