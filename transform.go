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
)

// CoordinateTransformation 两个空间参考之间的坐标转换
type CoordinateTransformation struct {
	handle C.OGRCoordinateTransformationH
	src    C.OGRSpatialReferenceH
	dst    C.OGRSpatialReferenceH
}

// NewCoordinateTransformation 创建 src -> dst 的坐标转换，使用完需 Close
func NewCoordinateTransformation(src, dst *SpatialReference) (*CoordinateTransformation, error) {
	hSrc, err := src.toOGR()
	if err != nil {
		return nil, err
	}
	hDst, err := dst.toOGR()
	if err != nil {
		C.OSRDestroySpatialReference(hSrc)
		return nil, err
	}

	h := C.OCTNewCoordinateTransformation(hSrc, hDst)
	if h == nil {
		C.OSRDestroySpatialReference(hSrc)
		C.OSRDestroySpatialReference(hDst)
		return nil, fmt.Errorf("%w: 无法创建坐标转换 %s -> %s: %s", ErrProjection, src, dst, lastError())
	}
	return &CoordinateTransformation{handle: h, src: hSrc, dst: hDst}, nil
}

// Transform 转换单个点，满足 extent.PointTransformer
func (ct *CoordinateTransformation) Transform(x, y float64) (float64, float64, error) {
	cx, cy := C.double(x), C.double(y)
	if C.OCTTransform(ct.handle, 1, &cx, &cy, nil) == 0 {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: 点 (%g, %g) 转换失败", ErrProjection, x, y)
	}
	return float64(cx), float64(cy), nil
}

// TransformPoints 批量转换，失败的点为NaN
func (ct *CoordinateTransformation) TransformPoints(xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("%w: %d x values but %d y values", ErrOptions, len(xs), len(ys))
	}
	n := len(xs)
	outX := append([]float64(nil), xs...)
	outY := append([]float64(nil), ys...)
	if n == 0 {
		return outX, outY, nil
	}

	success := make([]C.int, n)
	C.OCTTransformEx(ct.handle, C.int(n),
		(*C.double)(unsafe.Pointer(&outX[0])),
		(*C.double)(unsafe.Pointer(&outY[0])),
		nil,
		&success[0])
	for i := range success {
		if success[i] == 0 {
			outX[i], outY[i] = math.NaN(), math.NaN()
		}
	}
	return outX, outY, nil
}

// Close 释放GDAL对象
func (ct *CoordinateTransformation) Close() {
	if ct.handle != nil {
		C.OCTDestroyCoordinateTransformation(ct.handle)
		ct.handle = nil
	}
	if ct.src != nil {
		C.OSRDestroySpatialReference(ct.src)
		ct.src = nil
	}
	if ct.dst != nil {
		C.OSRDestroySpatialReference(ct.dst)
		ct.dst = nil
	}
}
