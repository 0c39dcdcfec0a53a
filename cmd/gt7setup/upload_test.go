package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/storage/memory"
	"github.com/gt7setup/tuner/pkg/core"
)

func TestUploadExport(t *testing.T) {
	setupTestGlobals(t)

	var uploads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/sessions" {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "1", r.FormValue("records"))
			uploads.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b := memory.New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	require.NoError(t, b.RecordTireCalculation(&core.TireCalculation{Diameter: 27.85}))
	require.NoError(t, b.Close())
	path := b.ExportedFilePath()
	require.NotEmpty(t, path)

	// disabled by default
	require.NoError(t, uploadExport(path))
	assert.Zero(t, uploads.Load())

	viper.Set("api.enabled", true)
	viper.Set("api.serverUrl", server.URL)
	require.NoError(t, uploadExport(path))
	assert.Equal(t, int32(1), uploads.Load())

	assert.Error(t, uploadExport(filepath.Join(t.TempDir(), "missing.json")))
}
