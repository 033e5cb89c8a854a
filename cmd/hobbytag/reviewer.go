package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/hobbytag/pkg/hobbytag/autotune"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
)

// promptReviewer asks on the terminal whether each orphan keyword is kept
// in the gap report.
type promptReviewer struct {
	reader *bufio.Reader
	writer io.Writer
}

func newPromptReviewer(r io.Reader, w io.Writer) *promptReviewer {
	return &promptReviewer{reader: bufio.NewReader(r), writer: w}
}

// Approve implements autotune.Reviewer. Only y or yes keeps the gap; end of
// input answers no.
func (p *promptReviewer) Approve(ctx context.Context, gap autotune.Gap) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	suggestion := dimStyle.Render("no suggestion")
	if gap.Area != "" {
		suggestion = fmt.Sprintf("%s (%.0f%%)", ingest.FormatAreaLabel(gap.Area), gap.Confidence*100)
	}
	if _, err := fmt.Fprintf(p.writer, "%s used by %d respondents, %d fell back; suggest %s. Keep? [y/N] ",
		headerStyle.Render(gap.Keyword), gap.Support, gap.OtherRows, suggestion); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
