package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultSnapshotsSubDir = "snapshots"

	defaultCORSOrigin = "http://localhost:5173"
)

const (
	defaultRecognitionTolerance = 0.5
	defaultConfidenceThreshold  = 0.5
	defaultCameraWidth          = 640
	defaultCameraHeight         = 480
)

// ModelConfig holds the file locations for the person detection DNN.
// It is only populated when both the config and weights paths are set.
type ModelConfig struct {
	ConfigPath          string
	WeightsPath         string
	ClassNamesPath      string // optional override for the built-in class list
	ConfidenceThreshold float64
}

// CameraConfig holds the capture source settings
type CameraConfig struct {
	Source string // device index ("0") or stream URL
	Width  int
	Height int
}

type Config struct {
	// database path (sqlite file holding encodings and events)
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for generated assets
	SnapshotsPath    string // full-calculated path for registration snapshots

	// person detection model, nil when not configured
	Model *ModelConfig

	// face extraction model paths (DNN)
	FaceDNNNetConfigPath   string
	FaceDNNNetModelPath    string
	FaceEmbeddingModelPath string

	// recognition settings (lower tolerance is stricter)
	RecognitionTolerance float64

	// origins allowed to call the API and websocket feed
	CORSAllowedOrigins []string

	Camera CameraConfig
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", filepath.Join("data", "camerahub.db"))

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	snapshotSubDir := getEnvOrDefault("SNAPSHOTS_SUBDIR", DefaultSnapshotsSubDir)
	absSnapshotsPath := filepath.Join(absMediaStorage, snapshotSubDir)

	var model *ModelConfig
	modelConfig := os.Getenv("MODEL_CONFIG_PATH")
	modelWeights := os.Getenv("MODEL_WEIGHTS_PATH")
	if modelConfig != "" && modelWeights != "" {
		model = &ModelConfig{
			ConfigPath:          modelConfig,
			WeightsPath:         modelWeights,
			ClassNamesPath:      os.Getenv("CLASS_NAMES_PATH"),
			ConfidenceThreshold: getEnvFloatOrDefault("CONFIDENCE_THRESHOLD", defaultConfidenceThreshold),
		}
	}

	faceDNNConfig := getEnvOrDefault("FACE_DNN_CONFIG_PATH", "./models/deploy.prototxt.txt")
	faceDNNModel := getEnvOrDefault("FACE_DNN_MODEL_PATH", "./models/res10_300x300_ssd_iter_140000_fp16.caffemodel")
	faceEmbeddingModel := getEnvOrDefault("FACE_EMBEDDING_MODEL_PATH", "./models/nn4.small2.v1.t7")

	tolerance := getEnvFloatOrDefault("RECOGNITION_TOLERANCE", defaultRecognitionTolerance)

	var corsOrigins []string
	for _, origin := range strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigin), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsOrigins = append(corsOrigins, origin)
		}
	}

	camera := CameraConfig{
		Source: getEnvOrDefault("CAMERA_SOURCE", "0"),
		Width:  getEnvIntOrDefault("CAMERA_WIDTH", defaultCameraWidth),
		Height: getEnvIntOrDefault("CAMERA_HEIGHT", defaultCameraHeight),
	}

	cfg := Config{
		DatabasePath:           dbPath,
		MediaStoragePath:       absMediaStorage,
		SnapshotsPath:          absSnapshotsPath,
		Model:                  model,
		FaceDNNNetConfigPath:   faceDNNConfig,
		FaceDNNNetModelPath:    faceDNNModel,
		FaceEmbeddingModelPath: faceEmbeddingModel,
		RecognitionTolerance:   tolerance,
		CORSAllowedOrigins:     corsOrigins,
		Camera:                 camera,
	}

	return cfg, nil
}
