package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camden-git/camerahub/media"
	"github.com/camden-git/camerahub/realtime"
	"github.com/camden-git/camerahub/recognition"
)

// registration uploads are whole photos, not video frames; 16 MiB is plenty
const maxRegistrationUploadSize = 16 << 20

type IdentityHandler struct {
	Registry *recognition.Registry
	Store    media.Store
	Hub      *realtime.Hub
}

type identityResponse struct {
	Label       string `json:"label"`
	SampleCount int    `json:"sample_count"`
}

// ListIdentities returns every known identity with its encoding sample count,
// in natural sort order
func (ih *IdentityHandler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	labels := ih.Registry.Labels()
	natsort.Sort(labels)

	resp := make([]identityResponse, 0, len(labels))
	for _, label := range labels {
		resp = append(resp, identityResponse{
			Label:       label,
			SampleCount: ih.Registry.SampleCount(label),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// RegisterIdentity accepts a multipart photo upload and registers every face
// found in it under the label from the URL. The original photo is kept as a
// snapshot for auditing.
func (ih *IdentityHandler) RegisterIdentity(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(chi.URLParam(r, "label"))
	if label == "" || label == recognition.UnknownLabel {
		WriteAPIError(w, http.StatusBadRequest, "invalid_label", "Label must be non-empty and not the reserved unknown label")
		return
	}
	if strings.ContainsAny(label, "/\\") {
		WriteAPIError(w, http.StatusBadRequest, "invalid_label", "Label cannot contain path separators")
		return
	}

	if err := r.ParseMultipartForm(maxRegistrationUploadSize); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_multipart", "Could not parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "missing_image", "Request must include an 'image' file field")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "unsupported_format", "Unsupported image format: "+filepath.Ext(header.Filename))
		return
	}

	// buffered so the same bytes feed decoding, EXIF, and the snapshot copy
	raw, err := io.ReadAll(io.LimitReader(file, maxRegistrationUploadSize))
	if err != nil {
		log.Printf("Error reading registration upload for '%s': %v", label, err)
		WriteAPIError(w, http.StatusInternalServerError, "upload_read_failed", "Failed to read uploaded image")
		return
	}

	frame, err := media.DecodeFrame(bytes.NewReader(raw))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "decode_failed", "Uploaded file is not a decodable image")
		return
	}

	// the audit snapshot is saved first so a failed registration can clean it
	// up; losing the snapshot itself is not fatal to registration
	snapshotName := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))
	snapshotPath, err := ih.Store.Save(media.AssetTypeSnapshot, label, snapshotName, bytes.NewReader(raw))
	if err != nil {
		log.Printf("Error saving registration snapshot for '%s': %v", label, err)
		snapshotPath = ""
	}

	registered, err := ih.Registry.RegisterFromImage(label, frame)
	if err != nil {
		if snapshotPath != "" {
			if delErr := ih.Store.Delete(snapshotPath); delErr != nil {
				log.Printf("Error removing snapshot for failed registration '%s': %v", label, delErr)
			}
		}
		if errors.Is(err, recognition.ErrNoFaceDetected) {
			WriteAPIError(w, http.StatusUnprocessableEntity, "no_face_detected", "No face was detected in the uploaded image")
			return
		}
		log.Printf("Error registering faces for '%s': %v", label, err)
		WriteAPIError(w, http.StatusInternalServerError, "registration_failed", "Failed to register faces")
		return
	}

	metadata := media.ExtractMetadata(bytes.NewReader(raw))

	if ih.Hub != nil {
		ih.Hub.Broadcast(realtime.RegistrationEvent(label))
	}

	resp := map[string]interface{}{
		"label":            label,
		"faces_registered": registered,
		"sample_count":     ih.Registry.SampleCount(label),
	}
	if snapshotPath != "" {
		resp["snapshot_path"] = snapshotPath
	}
	if metadata != nil {
		resp["metadata"] = metadata
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ReloadRegistry rebuilds the in-memory encoding cache from the store
func (ih *IdentityHandler) ReloadRegistry(w http.ResponseWriter, r *http.Request) {
	if err := ih.Registry.Reload(); err != nil {
		log.Printf("Error reloading registry: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "reload_failed", "Failed to reload the face registry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"labels":        len(ih.Registry.Labels()),
		"total_samples": ih.Registry.TotalSamples(),
	})
}
