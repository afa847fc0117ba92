// Command word2latex is the local smoke-testing CLI (component M):
// it wires components I-H and L directly, without component J's job
// store, for converting one document at a time from the command
// line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trantaidat7388-dot/word2latex/internal/archiver"
	"github.com/trantaidat7388-dot/word2latex/internal/convert"
	"github.com/trantaidat7388-dot/word2latex/internal/logging"
)

func main() {
	in := flag.String("in", "", "path to the input .docx")
	tmplPath := flag.String("template", "", "path to the target .tex template")
	out := flag.String("out", ".", "output directory for the archive and assets")
	demo := flag.Bool("demo", false, "use [H] figure placement instead of [htbp]")
	flag.Parse()

	if *in == "" || *tmplPath == "" {
		fmt.Fprintln(os.Stderr, "usage: word2latex -in <docx> -template <tex> -out <dir>")
		os.Exit(2)
	}

	if err := run(*in, *tmplPath, *out, *demo); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(inPath, tmplPath, outDir string, demoMode bool) error {
	docx, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	assetDir := filepath.Join(outDir, "assets")

	logging.Infof("converting %s against %s", inPath, tmplPath)
	result, err := convert.Convert(context.Background(), docx, string(tmpl), assetDir, convert.Options{DemoMode: demoMode})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	base := filepath.Base(inPath)
	texName := base[:len(base)-len(filepath.Ext(base))] + ".tex"

	archive, err := archiver.Archive(result.LaTeX, texName, assetDir, nil)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	archivePath := filepath.Join(outDir, texName[:len(texName)-len(".tex")]+".zip")
	if err := os.WriteFile(archivePath, archive, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	texOutPath := filepath.Join(outDir, texName)
	if err := os.WriteFile(texOutPath, []byte(result.LaTeX), 0o644); err != nil {
		return fmt.Errorf("write tex: %w", err)
	}

	logging.Infof("wrote %s and %s", texOutPath, archivePath)
	return nil
}
