package cli

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestPackCommand(t *testing.T) {
	spriteDir := t.TempDir()
	outDir := t.TempDir()
	writeTestPNG(t, spriteDir, "belt.png", 24, 24)
	writeTestPNG(t, spriteDir, "helm.png", 24, 24)

	if err := runCommand(t, "pack", spriteDir, "-o", outDir, "--no-cache"); err != nil {
		t.Fatalf("pack: %v", err)
	}

	cssPath := filepath.Join(outDir, stylesheetFileName)
	css, err := os.ReadFile(cssPath)
	if err != nil {
		t.Fatalf("read %s: %v", cssPath, err)
	}
	for _, class := range []string{".belt", ".helm"} {
		if !strings.Contains(string(css), class) {
			t.Errorf("stylesheet missing %s", class)
		}
	}

	atlasPath := filepath.Join(outDir, atlasFileName)
	f, err := os.Open(atlasPath)
	if err != nil {
		t.Fatalf("open %s: %v", atlasPath, err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("atlas is not valid PNG: %v", err)
	}
}

func TestPackCommandEmptyDir(t *testing.T) {
	if err := runCommand(t, "pack", t.TempDir(), "-o", t.TempDir(), "--no-cache"); err != nil {
		t.Fatalf("pack of empty dir should be a no-op, got %v", err)
	}
}

func TestPackCommandClean(t *testing.T) {
	spriteDir := t.TempDir()
	writeTestPNG(t, spriteDir, "gem.png", 16, 16)

	if err := runCommand(t, "pack", spriteDir, "-o", t.TempDir(), "--no-cache", "--clean"); err != nil {
		t.Fatalf("pack: %v", err)
	}

	if _, err := os.Stat(spriteDir); !os.IsNotExist(err) {
		t.Error("--clean should remove the sprite directory")
	}
}

func TestPackCommandOversizedImage(t *testing.T) {
	spriteDir := t.TempDir()
	writeTestPNG(t, spriteDir, "banner.png", 900, 20)

	err := runCommand(t, "pack", spriteDir, "-o", t.TempDir(), "--no-cache")
	if err == nil {
		t.Fatal("expected error for image wider than the atlas")
	}
}

func TestPackCommandCustomMaxWidth(t *testing.T) {
	spriteDir := t.TempDir()
	outDir := t.TempDir()
	writeTestPNG(t, spriteDir, "tile.png", 30, 30)

	if err := runCommand(t, "pack", spriteDir, "-o", outDir, "--no-cache", "--max-width", "100"); err != nil {
		t.Fatalf("pack: %v", err)
	}

	f, err := os.Open(filepath.Join(outDir, atlasFileName))
	if err != nil {
		t.Fatalf("open atlas: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode atlas: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("atlas width = %d, want 100", img.Bounds().Dx())
	}
}
