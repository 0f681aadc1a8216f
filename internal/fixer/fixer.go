// Package fixer sends source files to a chat-completions model for repair
// and applies the returned fixes with backup-then-write semantics.
package fixer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codefixer/internal/llm"
)

// Request identifies a file to fix, optionally narrowed to a 1-based
// inclusive line segment.
type Request struct {
	Path string

	// StartLine and EndLine select a segment to fix; both zero means the
	// whole file. When set, the rest of the file is sent as read-only
	// context and only the segment is replaced.
	StartLine int
	EndLine   int
}

// segmented reports whether the request targets a line segment.
func (r Request) segmented() bool {
	return r.StartLine != 0 || r.EndLine != 0
}

// Result holds the outcome of analyzing one file.
type Result struct {
	Path     string
	Original string
	Fixed    string

	// Changed is false when the model returned content identical to the
	// original, meaning there is nothing to apply.
	Changed bool

	// Warnings collects non-fatal oddities, such as a fixed segment whose
	// line count differs from the original segment.
	Warnings []string
}

// Engine drives the analyze/apply cycle.
type Engine struct {
	client      llm.Client
	backupDir   string
	concurrency int
	logger      *zap.Logger

	// now is overridable for deterministic backup names in tests.
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackupDir sets the directory that receives pre-fix backups.
func WithBackupDir(dir string) Option {
	return func(e *Engine) { e.backupDir = dir }
}

// WithConcurrency caps the number of files analyzed in parallel.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine over the given model client.
func NewEngine(client llm.Client, opts ...Option) *Engine {
	e := &Engine{
		client:      client,
		backupDir:   "_backup",
		concurrency: 4,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze reads the requested file, asks the model for a fix, and returns
// the proposed result without touching the file.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
	}
	original := string(data)
	lang := langFromPath(req.Path)

	e.logger.Info("analyzing file",
		zap.String("path", req.Path),
		zap.String("lang", lang),
		zap.Bool("segment", req.segmented()))

	if req.segmented() {
		return e.analyzeSegment(ctx, req, original, lang)
	}

	systemPrompt := fmt.Sprintf(
		"You are an expert code debugging assistant. The code is in %s.\n"+
			"Analyze the provided code, fix any errors or vulnerabilities, and optimize it. "+
			"Return only the corrected code snippet without any additional commentary.\n", lang)
	userPrompt := fmt.Sprintf("Fix the following code:\n```%s\n%s\n```", lang, original)

	raw, err := e.client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("model request for %s failed: %w", req.Path, err)
	}

	fixed := extractCodeBlock(raw, lang)
	fixed = matchTrailingNewline(original, fixed)

	return &Result{
		Path:     req.Path,
		Original: original,
		Fixed:    fixed,
		Changed:  fixed != original,
	}, nil
}

// analyzeSegment fixes only the requested line range, sending the whole
// file as context and splicing the fixed segment back in.
func (e *Engine) analyzeSegment(ctx context.Context, req Request, original, lang string) (*Result, error) {
	lines := strings.SplitAfter(original, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if req.StartLine < 1 || req.EndLine > len(lines) || req.StartLine > req.EndLine {
		return nil, fmt.Errorf("invalid line range %d-%d for %s (%d lines)", req.StartLine, req.EndLine, req.Path, len(lines))
	}

	segment := strings.Join(lines[req.StartLine-1:req.EndLine], "")

	systemPrompt := fmt.Sprintf(
		"You are an expert code debugging assistant. The code is in %s.\n"+
			"Analyze the provided code segment and identify errors, vulnerabilities, and "+
			"opportunities for optimization. Return only the corrected code snippet without any extra commentary.\n"+
			"Ensure that the corrected segment has the same number of lines as the input segment.\n"+
			"Only modify the given segment; the rest of the file is provided for context.\n", lang)
	userPrompt := fmt.Sprintf(
		"Fix only this code segment:\n```%s\n%s\n```\n"+
			"Here is the entire file content for context (do not modify code outside the segment):\n```%s\n%s\n```",
		lang, segment, lang, original)

	raw, err := e.client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("model request for %s failed: %w", req.Path, err)
	}

	fixedSegment := extractCodeBlock(raw, lang)

	result := &Result{Path: req.Path, Original: original}

	fixedLines := strings.SplitAfter(fixedSegment, "\n")
	if fixedLines[len(fixedLines)-1] == "" {
		fixedLines = fixedLines[:len(fixedLines)-1]
	}
	if len(fixedLines) != req.EndLine-req.StartLine+1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"fixed segment has %d lines, original had %d", len(fixedLines), req.EndLine-req.StartLine+1))
	}

	// Splice: keep every line outside the segment untouched.
	var b strings.Builder
	for _, l := range lines[:req.StartLine-1] {
		b.WriteString(l)
	}
	b.WriteString(fixedSegment)
	if !strings.HasSuffix(fixedSegment, "\n") && req.EndLine < len(lines) {
		b.WriteString("\n")
	}
	for _, l := range lines[req.EndLine:] {
		b.WriteString(l)
	}

	result.Fixed = matchTrailingNewline(original, b.String())
	result.Changed = result.Fixed != original
	return result, nil
}

// AnalyzeAll analyzes several files concurrently, capped by the engine's
// concurrency limit. Results come back ordered like the requests. The
// first failure cancels the remaining work.
func (e *Engine) AnalyzeAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := e.Analyze(ctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Apply backs up the original file and writes the fixed content. The
// write only happens after the backup succeeds, so a failed apply never
// leaves the file partially updated. Returns the backup path.
func (e *Engine) Apply(res *Result) (string, error) {
	if res == nil || !res.Changed {
		return "", fmt.Errorf("nothing to apply for %s", resPath(res))
	}

	info, err := os.Stat(res.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", res.Path, err)
	}

	if err := os.MkdirAll(e.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(e.backupDir,
		fmt.Sprintf("%s.%s.bak", filepath.Base(res.Path), e.now().Format("20060102-150405")))
	if err := os.WriteFile(backupPath, []byte(res.Original), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := os.WriteFile(res.Path, []byte(res.Fixed), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write fix: %w", err)
	}

	e.logger.Info("fix applied",
		zap.String("path", res.Path),
		zap.String("backup", backupPath))
	return backupPath, nil
}

// Review asks the model for a markdown review of the file without
// proposing a rewrite.
func (e *Engine) Review(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	lang := langFromPath(path)

	systemPrompt := fmt.Sprintf(
		"You are an expert code reviewer. The code is in %s.\n"+
			"Point out bugs, vulnerabilities, and optimization opportunities. "+
			"Answer in markdown with short sections. Do not rewrite the whole file.\n", lang)
	userPrompt := fmt.Sprintf("Review the following code:\n```%s\n%s\n```", lang, string(data))

	review, err := e.client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("model request for %s failed: %w", path, err)
	}
	return review, nil
}

// matchTrailingNewline makes the fixed content's trailing newline agree
// with the original's, since fence extraction trims it.
func matchTrailingNewline(original, fixed string) string {
	if strings.HasSuffix(original, "\n") && !strings.HasSuffix(fixed, "\n") {
		return fixed + "\n"
	}
	return fixed
}

func resPath(res *Result) string {
	if res == nil {
		return "<nil>"
	}
	return res.Path
}
