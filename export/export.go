// Package export serializes generated dials to STL files and ZIP archives.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/unixpickle/dialmesh"
	"github.com/unixpickle/dialmesh/solid"
	"github.com/unixpickle/model3d/model3d"
)

// WriteMeshSTL writes a mesh as binary STL. The mesh's faces are emitted
// as-is; callers hand in validated meshes whose winding is outward.
func WriteMeshSTL(w io.Writer, m *solid.Mesh) error {
	if m == nil || len(m.Faces) == 0 {
		return errors.New("export: empty mesh")
	}
	return model3d.WriteSTL(w, m.Triangles())
}

// SaveSTL writes a mesh to a file as binary STL.
func SaveSTL(path string, m *solid.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMeshSTL(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteArchive writes a dial export ZIP: one STL per numeral under
// numbers/individual, the merged dial as numbers/combined.stl, a README
// summarizing the parameters and, when preview bytes are given, a
// preview.png.
func WriteArchive(path string, a *dialmesh.Assembly, cfg dialmesh.Config, fontName string, preview []byte) error {
	if a == nil || len(a.Entries()) == 0 {
		return errors.New("export: nothing to archive")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	if err := writeArchiveEntries(zw, a, cfg, fontName, preview); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeArchiveEntries(zw *zip.Writer, a *dialmesh.Assembly, cfg dialmesh.Config, fontName string, preview []byte) error {
	for _, e := range a.Entries() {
		w, err := zw.Create("numbers/individual/" + sanitizeName(e.Label) + ".stl")
		if err != nil {
			return err
		}
		if err := WriteMeshSTL(w, e.Mesh); err != nil {
			return fmt.Errorf("numeral %s: %w", e.Label, err)
		}
	}

	w, err := zw.Create("numbers/combined.stl")
	if err != nil {
		return err
	}
	if err := WriteMeshSTL(w, a.Combined()); err != nil {
		return fmt.Errorf("combined mesh: %w", err)
	}

	w, err = zw.Create("README.txt")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, readme(cfg, fontName, a)); err != nil {
		return err
	}

	if len(preview) > 0 {
		w, err = zw.Create("preview.png")
		if err != nil {
			return err
		}
		if _, err := w.Write(preview); err != nil {
			return err
		}
	}
	return nil
}

func readme(cfg dialmesh.Config, fontName string, a *dialmesh.Assembly) string {
	var b strings.Builder
	b.WriteString("Watch dial numeral meshes\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format(time.RFC3339))
	if fontName != "" {
		fmt.Fprintf(&b, "Font: %s\n", fontName)
	}
	fmt.Fprintf(&b, "Numbering: %s (%s slots)\n", cfg.Numbering, cfg.Slots)
	fmt.Fprintf(&b, "Inner radius: %g mm\n", cfg.InnerRadius)
	fmt.Fprintf(&b, "Outer radius: %g mm\n", cfg.OuterRadius)
	fmt.Fprintf(&b, "Radial margin: %g mm\n", cfg.Margin)
	fmt.Fprintf(&b, "Lateral margin: %g mm\n", cfg.LateralMargin)
	fmt.Fprintf(&b, "Extrusion depth: %g mm\n", cfg.ExtrusionDepth)
	if cfg.Upright {
		b.WriteString("Orientation: upright\n")
	} else {
		b.WriteString("Orientation: rotated toward center\n")
	}
	if cfg.Distortion.Enabled && len(cfg.Distortion.Specs) > 0 {
		fmt.Fprintf(&b, "Distortion (%s stage):\n", cfg.Distortion.Stage)
		for _, s := range cfg.Distortion.Specs {
			fmt.Fprintf(&b, "  %s: intensity %g, seed %d\n", s.Kind, s.Intensity, s.Seed)
		}
	}

	b.WriteString("\nFiles:\n")
	fmt.Fprintf(&b, "  numbers/combined.stl (%d triangles)\n", len(a.Combined().Faces))
	for _, e := range a.Entries() {
		fmt.Fprintf(&b, "  numbers/individual/%s.stl (hour %d, %d triangles)\n",
			sanitizeName(e.Label), e.Hour, len(e.Mesh.Faces))
	}
	return b.String()
}

// sanitizeName maps a numeral label to a safe file stem.
func sanitizeName(s string) string {
	const maxLen = 24
	b := strings.Builder{}
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		if b.Len() >= maxLen {
			break
		}
	}
	res := strings.Trim(b.String(), "_")
	if res == "" {
		return "number"
	}
	return res
}
