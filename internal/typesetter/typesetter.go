// Package typesetter runs the xelatex subprocess over an emitted
// .tex file and its asset directory (component K). The wall-clock
// bound lives here, not in the conversion core, per §5: a single
// document's walk has no timeout of its own, but typesetting a
// subprocess does.
package typesetter

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/trantaidat7388-dot/word2latex/internal/converterrors"
)

// Timeout bounds a single xelatex invocation.
const Timeout = 120 * time.Second

// Result is one successful typesetting run.
type Result struct {
	PDFPath string
	Log     string
}

// Run invokes xelatex against texPath (a .tex file) in workDir,
// which must also contain any assets the document references by
// relative path. It returns the PDF's path alongside the combined
// stdout/stderr log, or an error if xelatex exits non-zero or the
// Timeout elapses first.
func Run(ctx context.Context, workDir, texPath string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "xelatex",
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory="+workDir,
		texPath,
	)
	cmd.Dir = workDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	log := out.String()

	if ctx.Err() == context.DeadlineExceeded {
		return Result{Log: log}, converterrors.New(converterrors.IoError, "xelatex timed out after "+Timeout.String())
	}
	if err != nil {
		return Result{Log: log}, converterrors.Wrap(converterrors.IoError, "run xelatex", err)
	}

	base := texPath[:len(texPath)-len(filepath.Ext(texPath))] + ".pdf"
	return Result{PDFPath: filepath.Join(workDir, filepath.Base(base)), Log: log}, nil
}
