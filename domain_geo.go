/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package Godomain

/*
#include "osgeo_utils.h"

static int godomainBandSize(const char *path, int *w, int *h) {
    GDALDatasetH hDS = GDALOpen(path, GA_ReadOnly);
    if (hDS == NULL) {
        return 0;
    }
    *w = GDALGetRasterXSize(hDS);
    *h = GDALGetRasterYSize(hDS);
    GDALClose(hDS);
    return 1;
}

static int godomainReadBand(const char *path, int band, int w, int h, double *out) {
    GDALDatasetH hDS = GDALOpen(path, GA_ReadOnly);
    if (hDS == NULL) {
        return 0;
    }
    if (band < 1 || band > GDALGetRasterCount(hDS) ||
        GDALGetRasterXSize(hDS) != w || GDALGetRasterYSize(hDS) != h) {
        GDALClose(hDS);
        return 0;
    }
    int ok = GDALRasterIO(GDALGetRasterBand(hDS, band), GF_Read, 0, 0, w, h, out, w, h, GDT_Float64, 0, 0) == CE_None;
    GDALClose(hDS);
    return ok;
}
*/
import "C"
import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/paulmach/orb"

	"github.com/GrainArc/Godomain/border"
	"github.com/GrainArc/Godomain/geodesy"
)

// TransformPoints 像素/行号与目标坐标系坐标之间的转换
//
// inverse 为 false 时 (列, 行) -> dst 坐标，为 true 时反向。dst 为 nil 时使用WGS84。
// 依次使用GEOLOCATION数组、GCP或仿射变换。无法转换的点为NaN。
func (d *Domain) TransformPoints(cols, rows []float64, inverse bool, dst *SpatialReference) ([]float64, []float64, error) {
	if len(cols) != len(rows) {
		return nil, nil, fmt.Errorf("%w: %d columns but %d rows", ErrOptions, len(cols), len(rows))
	}
	if dst == nil {
		dst = SRS_WGS84
	}
	wkt, err := dst.ExportWKT()
	if err != nil {
		return nil, nil, err
	}

	xs := append([]float64(nil), cols...)
	ys := append([]float64(nil), rows...)
	if len(xs) == 0 {
		return xs, ys, nil
	}

	err = GetGDALPool().Execute(func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.dataset == nil {
			return ErrClosed
		}

		var opts **C.char
		opts = setNameValue(opts, "DST_SRS", wkt)
		switch {
		case d.metadataItem("X_DATASET", geolocationDomain) != "":
			opts = setNameValue(opts, "METHOD", "GEOLOC_ARRAY")
		case C.GDALGetGCPCount(d.dataset) > 0:
			opts = setNameValue(opts, "METHOD", "GCP_POLYNOMIAL")
		}
		h := C.GDALCreateGenImgProjTransformer2(d.dataset, nil, opts)
		C.CSLDestroy(opts)
		if h == nil {
			return fmt.Errorf("%w: cannot create transformer: %s", ErrProjection, lastError())
		}
		defer C.GDALDestroyGenImgProjTransformer(h)

		n := len(xs)
		zs := make([]float64, n)
		success := make([]C.int, n)
		dstToSrc := C.int(0)
		if inverse {
			dstToSrc = 1
		}
		C.GDALGenImgProjTransform(h, dstToSrc, C.int(n),
			(*C.double)(unsafe.Pointer(&xs[0])),
			(*C.double)(unsafe.Pointer(&ys[0])),
			(*C.double)(unsafe.Pointer(&zs[0])),
			&success[0])
		for i := range success {
			if success[i] == 0 {
				xs[i], ys[i] = math.NaN(), math.NaN()
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}

func setNameValue(list **C.char, name, value string) **C.char {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))
	return C.CSLSetNameValue(list, cName, cValue)
}

// Corners 四角经纬度，顺序为 左上、左下、右上、右下
func (d *Domain) Corners() (lon, lat []float64, err error) {
	s := d.Size()
	w, h := float64(s.Width), float64(s.Height)
	return d.TransformPoints([]float64{0, 0, w, w}, []float64{0, h, 0, h}, false, nil)
}

// Border 沿边界顺时针采样的经纬度，每条边 nPoints 个点
func (d *Domain) Border(nPoints int) (lon, lat []float64, err error) {
	s := d.Size()
	cols, rows := border.PixelLines(s.Width, s.Height, nPoints)
	return d.TransformPoints(cols, rows, false, nil)
}

// BorderPolygon 边界多边形
func (d *Domain) BorderPolygon(nPoints int) (orb.Polygon, error) {
	lon, lat, err := d.Border(nPoints)
	if err != nil {
		return nil, err
	}
	return border.Polygon(lon, lat)
}

// BorderWKT 边界多边形的WKT
func (d *Domain) BorderWKT(nPoints int) (string, error) {
	poly, err := d.BorderPolygon(nPoints)
	if err != nil {
		return "", err
	}
	return border.WKT(poly), nil
}

// BorderPostGIS 形如 PolygonFromText('...') 的边界
func (d *Domain) BorderPostGIS(nPoints int) (string, error) {
	poly, err := d.BorderPolygon(nPoints)
	if err != nil {
		return "", err
	}
	return border.PostGIS(poly), nil
}

// Overlaps 两个Domain的边界是否相交
func (d *Domain) Overlaps(other *Domain) (bool, error) {
	return d.relate(other, func(a, b C.OGRGeometryH) bool { return C.OGR_G_Intersects(a, b) != 0 })
}

// Contains 本Domain是否完全覆盖 other
func (d *Domain) Contains(other *Domain) (bool, error) {
	return d.relate(other, func(a, b C.OGRGeometryH) bool { return C.OGR_G_Contains(a, b) != 0 })
}

func (d *Domain) relate(other *Domain, pred func(a, b C.OGRGeometryH) bool) (bool, error) {
	wktA, err := d.BorderWKT(border.DefaultPoints)
	if err != nil {
		return false, err
	}
	wktB, err := other.BorderWKT(border.DefaultPoints)
	if err != nil {
		return false, err
	}
	a, err := geometryFromWKT(wktA)
	if err != nil {
		return false, err
	}
	defer C.OGR_G_DestroyGeometry(a)
	b, err := geometryFromWKT(wktB)
	if err != nil {
		return false, err
	}
	defer C.OGR_G_DestroyGeometry(b)
	return pred(a, b), nil
}

func geometryFromWKT(wkt string) (C.OGRGeometryH, error) {
	cWKT := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWKT))
	p := cWKT
	var g C.OGRGeometryH
	if C.OGR_G_CreateFromWkt(&p, nil, &g) != C.OGRERR_NONE || g == nil {
		return nil, fmt.Errorf("invalid border geometry: %s", lastError())
	}
	return g, nil
}

// GeolocationGrids 经纬度网格，step 为抽稀步长
//
// 有GEOLOCATION数组时直接读取数组，否则逐像素转换到 dst（nil 为WGS84）。
func (d *Domain) GeolocationGrids(step int, dst *SpatialReference) (lon, lat [][]float64, err error) {
	if step < 1 {
		step = 1
	}
	if d.HasGeolocation() {
		lonAll, latAll, err := d.readGeolocationArrays()
		if err != nil {
			return nil, nil, err
		}
		return subsample(lonAll, step), subsample(latAll, step), nil
	}

	s := d.Size()
	var cols, rows []float64
	var nx, ny int
	for y := 0; y < s.Height; y += step {
		ny++
		for x := 0; x < s.Width; x += step {
			cols = append(cols, float64(x))
			rows = append(rows, float64(y))
		}
	}
	if ny > 0 {
		nx = len(cols) / ny
	}
	xs, ys, err := d.TransformPoints(cols, rows, false, dst)
	if err != nil {
		return nil, nil, err
	}
	return reshape(xs, ny, nx), reshape(ys, ny, nx), nil
}

func (d *Domain) readGeolocationArrays() (lon, lat [][]float64, err error) {
	d.mu.Lock()
	if d.dataset == nil {
		d.mu.Unlock()
		return nil, nil, ErrClosed
	}
	xPath := d.metadataItem("X_DATASET", geolocationDomain)
	xBand, _ := strconv.Atoi(d.metadataItem("X_BAND", geolocationDomain))
	yPath := d.metadataItem("Y_DATASET", geolocationDomain)
	yBand, _ := strconv.Atoi(d.metadataItem("Y_BAND", geolocationDomain))
	d.mu.Unlock()

	lon, err = readBand(xPath, xBand)
	if err != nil {
		return nil, nil, err
	}
	lat, err = readBand(yPath, yBand)
	if err != nil {
		return nil, nil, err
	}
	return lon, lat, nil
}

func readBand(path string, band int) ([][]float64, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var grid [][]float64
	err := GetGDALPool().Execute(func() error {
		var w, h C.int
		if C.godomainBandSize(cPath, &w, &h) == 0 || w <= 0 || h <= 0 {
			return fmt.Errorf("cannot open geolocation dataset %s: %s", path, lastError())
		}
		buf := make([]float64, int(w)*int(h))
		if C.godomainReadBand(cPath, C.int(band), w, h, (*C.double)(unsafe.Pointer(&buf[0]))) == 0 {
			return fmt.Errorf("cannot read band %d of %s: %s", band, path, lastError())
		}
		grid = reshape(buf, int(h), int(w))
		return nil
	})
	return grid, err
}

func reshape(v []float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = v[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return out
}

func subsample(grid [][]float64, step int) [][]float64 {
	if step == 1 {
		return grid
	}
	var out [][]float64
	for r := 0; r < len(grid); r += step {
		row := make([]float64, 0, len(grid[r])/step+1)
		for c := 0; c < len(grid[r]); c += step {
			row = append(row, grid[r][c])
		}
		out = append(out, row)
	}
	return out
}

// MinMaxLatLon 经纬度网格的最小/最大值
func (d *Domain) MinMaxLatLon() (minLat, maxLat, minLon, maxLon float64, err error) {
	lon, lat, err := d.GeolocationGrids(1, nil)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return geodesy.MinMax(lon, lat)
}

// PixelSizeMeters 像素大小（米）
//
// 米制投影直接取仿射变换的像素大小；其他情况在中心像素用球面距离估算。
func (d *Domain) PixelSizeMeters() (dx, dy float64, err error) {
	if gt, ok := d.GeoTransform(); ok {
		if proj := d.Projection(); proj != "" {
			if srs, err := ParseSpatialReference(proj); err == nil && srs.IsMetric() {
				return math.Abs(gt[1]), math.Abs(gt[5]), nil
			}
		}
	}

	s := d.Size()
	c := math.Round(float64(s.Width) / 2)
	r := math.Round(float64(s.Height) / 2)
	lon, lat, err := d.TransformPoints([]float64{c, c + 1, c}, []float64{r, r, r + 1}, false, nil)
	if err != nil {
		return 0, 0, err
	}
	dx, dy = geodesy.PixelSize(
		orb.Point{lon[0], lat[0]},
		orb.Point{lon[1], lat[1]},
		orb.Point{lon[2], lat[2]},
	)
	return dx, dy, nil
}

// AzimuthY 每个像素相对Y轴（指向上一行）的方位角，0-360度
func (d *Domain) AzimuthY(step int) ([][]float64, error) {
	lon, lat, err := d.GeolocationGrids(step, nil)
	if err != nil {
		return nil, err
	}
	return geodesy.AzimuthY(lon, lat)
}
