package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codefixer/internal/fixer"
	"codefixer/internal/llm"
)

func TestRootCommand_RunsDemo(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, rootCmd.Execute())

	want := "Hello, world!\n" +
		"1\n2\n3\n4\n5\n" +
		"10\n" +
		"30\n" +
		"0\n1\n2\n3\n4\n" +
		"25\n"
	assert.Equal(t, want, out.String())
}

func TestFixCommand_FlagValidation(t *testing.T) {
	t.Run("start without end", func(t *testing.T) {
		defer resetFixFlags()
		rootCmd.SetArgs([]string{"fix", "--start", "3", "some.go"})
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--start and --end must be provided together")
	})

	t.Run("segment with multiple files", func(t *testing.T) {
		defer resetFixFlags()
		rootCmd.SetArgs([]string{"fix", "--start", "1", "--end", "2", "a.go", "b.go"})
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target a single file")
	})
}

func resetFixFlags() {
	fixStart = 0
	fixEnd = 0
	fixYes = false
	fixNoColor = false
	fixBackupDir = ""
}

func TestPresentAndApply_NoChanges(t *testing.T) {
	engine := fixer.NewEngine(nil)
	res := &fixer.Result{Path: "clean.go", Changed: false}

	var out bytes.Buffer
	err := presentAndApply(engine, res, &out, bufio.NewReader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "clean.go: no changes suggested.")
}

func TestPresentAndApply_Declined(t *testing.T) {
	defer resetFixFlags()
	fixNoColor = true

	engine := fixer.NewEngine(nil)
	res := &fixer.Result{
		Path:     "app.go",
		Original: "old\n",
		Fixed:    "new\n",
		Changed:  true,
	}

	var out bytes.Buffer
	err := presentAndApply(engine, res, &out, bufio.NewReader(strings.NewReader("n\n")))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "-old")
	assert.Contains(t, out.String(), "+new")
	assert.Contains(t, out.String(), "Apply these changes? [y/N]")
	assert.Contains(t, out.String(), "app.go: skipped.")
}

func TestPresentAndApply_Confirmed(t *testing.T) {
	defer resetFixFlags()
	fixNoColor = true

	dir := t.TempDir()
	path := filepath.Join(dir, "app.go")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	engine := fixer.NewEngine(nil, fixer.WithBackupDir(filepath.Join(dir, "backups")))
	res := &fixer.Result{
		Path:     path,
		Original: "old\n",
		Fixed:    "new\n",
		Changed:  true,
		Warnings: []string{"fixed segment has 2 lines, original had 1"},
	}

	var out bytes.Buffer
	err := presentAndApply(engine, res, &out, bufio.NewReader(strings.NewReader("y\n")))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Warning")
	assert.Contains(t, out.String(), "fix applied")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))
}

func TestBuildClientUsesConfig(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	cfg.LLM.Model = "model-under-test"

	client := buildClient(cfg)
	var _ llm.Client = client
	assert.Equal(t, "model-under-test", client.GetModel())
}
