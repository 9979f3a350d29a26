package Godomain

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrainArc/Godomain/extent"
)

func escapedWGS84(t *testing.T) string {
	t.Helper()
	wkt, err := SRS_WGS84.ExportWKT()
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, xml.EscapeText(&b, []byte(wkt)))
	return b.String()
}

// writeGeoTransformVRT 20x10 像素，左上角 (10, 60)，像素 0.5 度
func writeGeoTransformVRT(t *testing.T) string {
	t.Helper()
	doc := fmt.Sprintf(`<VRTDataset rasterXSize="20" rasterYSize="10">
  <SRS>%s</SRS>
  <GeoTransform>10, 0.5, 0, 60, 0, -0.5</GeoTransform>
  <VRTRasterBand dataType="Byte" band="1"/>
</VRTDataset>`, escapedWGS84(t))
	path := filepath.Join(t.TempDir(), "gt.vrt")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

var testGCPs = []GCP{
	{ID: "1", Pixel: 0, Line: 0, X: 10, Y: 60},
	{ID: "2", Pixel: 10, Line: 0, X: 20, Y: 60},
	{ID: "3", Pixel: 0, Line: 10, X: 10, Y: 50},
	{ID: "4", Pixel: 10, Line: 10, X: 20, Y: 50},
	{ID: "5", Pixel: 5, Line: 5, X: 15, Y: 55},
}

// writeGCPVRT 10x10 像素，只有GCP
func writeGCPVRT(t *testing.T) string {
	t.Helper()
	var b bytes.Buffer
	fmt.Fprintf(&b, "<VRTDataset rasterXSize=\"10\" rasterYSize=\"10\">\n  <GCPList Projection=\"%s\">\n", escapedWGS84(t))
	for _, g := range testGCPs {
		fmt.Fprintf(&b, "    <GCP Id=\"%s\" Pixel=\"%g\" Line=\"%g\" X=\"%g\" Y=\"%g\" Z=\"0\"/>\n", g.ID, g.Pixel, g.Line, g.X, g.Y)
	}
	b.WriteString("  </GCPList>\n  <VRTRasterBand dataType=\"Byte\" band=\"1\"/>\n</VRTDataset>")
	path := filepath.Join(t.TempDir(), "gcp.vrt")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

func TestNewDomainFromDatasetCopiesGeoreference(t *testing.T) {
	d, err := NewDomainFromDataset(writeGeoTransformVRT(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, extent.RasterSize{Width: 20, Height: 10}, d.Size())
	gt, ok := d.GeoTransform()
	require.True(t, ok)
	assert.Equal(t, extent.GeoTransform{10, 0.5, 0, 60, 0, -0.5}, gt)
	assert.Contains(t, d.Projection(), "WGS 84")
	assert.False(t, d.HasGCPs())
	assert.Nil(t, d.ExtentSpec())

	lon, lat, err := d.Corners()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 10, 20, 20}, lon, 1e-9)
	assert.InDeltaSlice(t, []float64{60, 55, 60, 55}, lat, 1e-9)
}

func TestNewDomainFromDatasetSRS(t *testing.T) {
	d, err := NewDomainFromDatasetSRS(writeGeoTransformVRT(t), "EPSG:3857", WithLogger(quietLogger()))
	require.NoError(t, err)
	defer d.Close()

	assert.Contains(t, d.Projection(), "Pseudo-Mercator")
	s := d.Size()
	assert.Positive(t, s.Width)
	assert.Positive(t, s.Height)

	gt, ok := d.GeoTransform()
	require.True(t, ok)
	assert.InDelta(t, 1113194.91, gt[0], gt[1])
	assert.Negative(t, gt[5])

	lon, lat, err := d.Corners()
	require.NoError(t, err)
	assert.InDelta(t, 10, lon[0], 0.1)
	assert.InDelta(t, 20, lon[3], 0.1)
	assert.InDelta(t, 60, lat[0], 0.1)
	assert.InDelta(t, 55, lat[3], 0.1)

	_, err = NewDomainFromDatasetSRS(writeGeoTransformVRT(t), "no such srs", WithLogger(quietLogger()))
	assert.ErrorIs(t, err, ErrProjection)
}

func TestGCPDomain(t *testing.T) {
	d, err := NewDomainFromDataset(writeGCPVRT(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer d.Close()

	assert.True(t, d.HasGCPs())
	_, ok := d.GeoTransform()
	assert.False(t, ok)
	assert.Contains(t, d.Projection(), "WGS 84")

	gcps, proj := d.GCPs()
	assert.Contains(t, proj, "WGS 84")
	assert.Equal(t, testGCPs, gcps)

	lon, lat, err := d.Corners()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 10, 20, 20}, lon, 1e-6)
	assert.InDeltaSlice(t, []float64{60, 50, 60, 50}, lat, 1e-6)
}

func TestReprojectGCPs(t *testing.T) {
	d, err := NewDomainFromDataset(writeGCPVRT(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.ReprojectGCPs("EPSG:3857"))
	gcps, proj := d.GCPs()
	assert.Contains(t, proj, "Pseudo-Mercator")
	require.Len(t, gcps, len(testGCPs))
	assert.InDelta(t, 1113194.91, gcps[0].X, 0.01)
	assert.InDelta(t, 8399737.89, gcps[0].Y, 0.01)
	assert.Equal(t, testGCPs[0].Pixel, gcps[0].Pixel)
	assert.Equal(t, testGCPs[0].Line, gcps[0].Line)

	lon, _, err := d.Corners()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 10, 20, 20}, lon, 0.5)
}

func TestReprojectGCPsDefaultStereographic(t *testing.T) {
	d, err := NewDomainFromDataset(writeGCPVRT(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer d.Close()

	_, before := d.GCPs()
	require.NoError(t, d.ReprojectGCPs(""))
	gcps, after := d.GCPs()
	assert.NotEqual(t, before, after)
	assert.Contains(t, after, "Stereographic")

	// 投影中心取边界经纬度中位数 (15, 55)，即中心GCP
	center := gcps[4]
	assert.Equal(t, "5", center.ID)
	assert.InDelta(t, 0, center.X, 1)
	assert.InDelta(t, 0, center.Y, 1)
	assert.Greater(t, gcps[1].X, 0.0)
	assert.Greater(t, gcps[0].Y, 0.0)
}
