package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/usecase"
	"github.com/user/linkstats/pkg/archive"
)

type stubScope struct{}

func (stubScope) ResolveWorkspace(ctx context.Context, id string) (*entity.Workspace, error) {
	if id != "ws_1" {
		return nil, apierror.New(apierror.CodeNotFound, "Workspace not found.")
	}
	return &entity.Workspace{ID: id, Plan: entity.PlanFree, UsageLimit: 100}, nil
}

func (stubScope) ResolveLink(ctx context.Context, ws *entity.Workspace, q entity.AnalyticsQuery) (*entity.Link, error) {
	return nil, nil
}

type stubExporter struct {
	got usecase.ExportInput
}

func (s *stubExporter) Export(ctx context.Context, in usecase.ExportInput) ([]archive.File, error) {
	s.got = in
	return []archive.File{{Name: "country.csv", Data: []byte("country,clicks\nUS,1\n")}}, nil
}

func TestRunExport(t *testing.T) {
	exporter := &stubExporter{}
	var buf bytes.Buffer

	n, err := runExport(context.Background(), stubScope{}, exporter, exportOptions{
		workspace: "ws_1",
		params:    map[string]string{"interval": "7d", "country": "us"},
	}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.Interval7d, exporter.got.Query.Interval)
	assert.Equal(t, "US", exporter.got.Query.Country)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "country.csv", zr.File[0].Name)
}

func TestRunExport_InvalidQuery(t *testing.T) {
	_, err := runExport(context.Background(), stubScope{}, &stubExporter{}, exportOptions{
		workspace: "ws_1",
		params:    map[string]string{"interval": "forever"},
	}, &bytes.Buffer{})

	assert.True(t, apierror.HasCode(err, apierror.CodeBadRequest))
}

func TestRunExport_UnknownWorkspace(t *testing.T) {
	_, err := runExport(context.Background(), stubScope{}, &stubExporter{}, exportOptions{workspace: "ws_9"}, &bytes.Buffer{})

	assert.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestExportCmd_RequiresWorkspace(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"export"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"workspace" not set`)
}
