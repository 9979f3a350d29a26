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
*/
import "C"
import (
	"fmt"
	"math"
	"unsafe"

	"github.com/GrainArc/Godomain/border"
	"github.com/GrainArc/Godomain/geodesy"
)

// GCP 地面控制点
type GCP struct {
	ID    string
	Pixel float64
	Line  float64
	X     float64
	Y     float64
	Z     float64
}

// GCPs 当前的地面控制点及其投影
func (d *Domain) GCPs() ([]GCP, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset == nil {
		return nil, ""
	}
	n := int(C.GDALGetGCPCount(d.dataset))
	if n == 0 {
		return nil, ""
	}
	src := unsafe.Slice(C.GDALGetGCPs(d.dataset), n)
	out := make([]GCP, n)
	for i, g := range src {
		out[i] = GCP{
			ID:    C.GoString(g.pszId),
			Pixel: float64(g.dfGCPPixel),
			Line:  float64(g.dfGCPLine),
			X:     float64(g.dfGCPX),
			Y:     float64(g.dfGCPY),
			Z:     float64(g.dfGCPZ),
		}
	}
	return out, C.GoString(C.GDALGetGCPProjection(d.dataset))
}

// ReprojectGCPs 把全部GCP转换到新的空间参考
//
// GCP所在坐标系在目标区域附近有奇点（如极地附近的经纬度）时，
// 重投影前需先调用。srs 为空时使用以边界中位经纬度为中心的极射赤面投影。
func (d *Domain) ReprojectGCPs(srs string) error {
	if !d.HasGCPs() {
		return fmt.Errorf("%w: domain has no GCPs", ErrOptions)
	}
	if srs == "" {
		lon, lat, err := d.Border(border.DefaultPoints)
		if err != nil {
			return err
		}
		srs = fmt.Sprintf("+proj=stere +datum=WGS84 +ellps=WGS84 +lat_0=%f +lon_0=%f +no_defs",
			geodesy.Median(lat), geodesy.Median(lon))
	}
	dst, err := ParseSpatialReference(srs)
	if err != nil {
		return err
	}
	dstWKT, err := dst.ExportWKT()
	if err != nil {
		return err
	}
	gcps, srcProj := d.GCPs()
	src, err := ParseSpatialReference(srcProj)
	if err != nil {
		return err
	}
	ct, err := NewCoordinateTransformation(src, dst)
	if err != nil {
		return err
	}
	defer ct.Close()

	xs := make([]float64, len(gcps))
	ys := make([]float64, len(gcps))
	for i, g := range gcps {
		xs[i], ys[i] = g.X, g.Y
	}
	xs, ys, err = ct.TransformPoints(xs, ys)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset == nil {
		return ErrClosed
	}
	n := C.GDALGetGCPCount(d.dataset)
	if int(n) != len(gcps) {
		return fmt.Errorf("GCPs changed during reprojection")
	}
	dup := C.GDALDuplicateGCPs(n, C.GDALGetGCPs(d.dataset))
	defer func() {
		C.GDALDeinitGCPs(n, dup)
		C.VSIFree(unsafe.Pointer(dup))
	}()
	failed := 0
	arr := unsafe.Slice(dup, int(n))
	for i := range arr {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			failed++
		}
		arr[i].dfGCPX = C.double(xs[i])
		arr[i].dfGCPY = C.double(ys[i])
	}
	if failed > 0 {
		d.logger.Warn("GCPs could not be reprojected", "failed", failed, "total", int(n))
	}

	cWKT := C.CString(dstWKT)
	defer C.free(unsafe.Pointer(cWKT))
	if C.GDALSetGCPs(d.dataset, n, dup, cWKT) != C.CE_None {
		return fmt.Errorf("%w: set GCPs: %s", ErrProjection, lastError())
	}
	return nil
}
