package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeAppDirName(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback string
		want     string
	}{
		{"plain name", "Demo App", "", "Demo App"},
		{"invalid chars replaced", `De<mo>/Ap:p`, "", "De_mo__Ap_p"},
		{"empty uses fallback", "", "app_123", "app_123"},
		{"both empty", "", "", "app"},
		{"windows reserved", "CON", "", "CON_app"},
		{"trailing dots stripped", "Demo.", "", "Demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAppDirName(tt.value, tt.fallback); got != tt.want {
				t.Errorf("SanitizeAppDirName(%q, %q) = %q, want %q", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestSanitizeAppDirName_Truncates(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := SanitizeAppDirName(long, "")
	if len(got) > 200 {
		t.Errorf("sanitized name is %d chars, want <= 200", len(got))
	}
}

func TestResetCountryDir(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	appDir, err := m.AppDir("Demo", "")
	if err != nil {
		t.Fatalf("AppDir() failed: %v", err)
	}

	// First run leaves three screenshots behind.
	dir, err := m.ResetCountryDir(appDir, "US")
	if err != nil {
		t.Fatalf("ResetCountryDir() failed: %v", err)
	}
	if filepath.Base(dir) != "us" {
		t.Errorf("country dir = %q, want lowercased %q", filepath.Base(dir), "us")
	}
	for _, n := range []string{"screenshot_1.jpg", "screenshot_2.jpg", "screenshot_3.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Second run must start from an empty directory.
	dir, err = m.ResetCountryDir(appDir, "us")
	if err != nil {
		t.Fatalf("ResetCountryDir() rerun failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("reset dir has %d entries, want 0", len(entries))
	}
}

func TestSaveImage_Extension(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	appDir, _ := m.AppDir("Demo", "")
	dir, _ := m.ResetCountryDir(appDir, "us")

	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "logo.png"},
		{"image/jpeg", "logo.jpg"},
		{"application/octet-stream", "logo.jpg"},
	}
	for _, tt := range tests {
		got, err := m.SaveImage(dir, "logo", []byte{1, 2, 3}, tt.contentType)
		if err != nil {
			t.Fatalf("SaveImage(%q) failed: %v", tt.contentType, err)
		}
		if got != tt.want {
			t.Errorf("SaveImage(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
		if _, err := os.Stat(filepath.Join(dir, got)); err != nil {
			t.Errorf("saved file missing: %v", err)
		}
	}
}

func TestNewManager_EmptyDir(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Error("NewManager(\"\") should fail")
	}
}
