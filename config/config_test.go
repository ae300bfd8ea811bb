package config

import (
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_PATH", "MEDIA_STORAGE_PATH", "SNAPSHOTS_SUBDIR",
		"MODEL_CONFIG_PATH", "MODEL_WEIGHTS_PATH", "CLASS_NAMES_PATH",
		"CONFIDENCE_THRESHOLD", "FACE_DNN_CONFIG_PATH", "FACE_DNN_MODEL_PATH",
		"FACE_EMBEDDING_MODEL_PATH", "RECOGNITION_TOLERANCE",
		"CAMERA_SOURCE", "CAMERA_WIDTH", "CAMERA_HEIGHT",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.DatabasePath != filepath.Join("data", "camerahub.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.RecognitionTolerance != 0.5 {
		t.Errorf("RecognitionTolerance = %v, want 0.5", cfg.RecognitionTolerance)
	}
	if cfg.Model != nil {
		t.Errorf("Model = %+v, want nil when unconfigured", cfg.Model)
	}
	if cfg.Camera.Source != "0" || cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("Camera = %+v, want source 0 at 640x480", cfg.Camera)
	}
	if filepath.Base(cfg.SnapshotsPath) != DefaultSnapshotsSubDir {
		t.Errorf("SnapshotsPath = %q, want %q leaf", cfg.SnapshotsPath, DefaultSnapshotsSubDir)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSAllowedOrigins = %v, want the localhost dev default", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://hub.example.com, https://ops.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	want := []string{"https://hub.example.com", "https://ops.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigModelRequiresBothPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_CONFIG_PATH", "/models/net.pbtxt")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Model != nil {
		t.Error("Model configured with only one of the two required paths")
	}

	t.Setenv("MODEL_WEIGHTS_PATH", "/models/net.pb")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Model == nil {
		t.Fatal("Model = nil with both paths set")
	}
	if cfg.Model.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %v, want default 0.5", cfg.Model.ConfidenceThreshold)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECOGNITION_TOLERANCE", "0.35")
	t.Setenv("CAMERA_SOURCE", "rtsp://cam.local/stream")
	t.Setenv("CAMERA_WIDTH", "1280")
	t.Setenv("CAMERA_HEIGHT", "720")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.RecognitionTolerance != 0.35 {
		t.Errorf("RecognitionTolerance = %v, want 0.35", cfg.RecognitionTolerance)
	}
	if cfg.Camera.Source != "rtsp://cam.local/stream" || cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
		t.Errorf("Camera = %+v", cfg.Camera)
	}
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMERA_WIDTH", "not-a-number")
	t.Setenv("RECOGNITION_TOLERANCE", "-1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Camera.Width != 640 {
		t.Errorf("Camera.Width = %d, want default 640", cfg.Camera.Width)
	}
	if cfg.RecognitionTolerance != 0.5 {
		t.Errorf("RecognitionTolerance = %v, want default 0.5", cfg.RecognitionTolerance)
	}
}
