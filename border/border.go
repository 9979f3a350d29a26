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

// Package border builds the pixel/line walk around a raster grid and turns
// the transformed walk into an orb polygon, WKT or PostGIS text.
package border

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// DefaultPoints 每条边默认的采样点数
const DefaultPoints = 10

// ErrLength 经纬度向量长度不一致或为空
var ErrLength = errors.New("border: lon/lat vectors must be non-empty and of equal length")

// RowColVector 沿一条边的采样位置：0, step, 2*step ...（最多 n 个）再加上 size
func RowColVector(size, n int) []float64 {
	if n <= 0 {
		n = DefaultPoints
	}
	step := size / n
	if step < 1 {
		step = 1
	}
	vec := make([]float64, 0, n+1)
	for i := 0; i < size && len(vec) < n; i += step {
		vec = append(vec, float64(i))
	}
	return append(vec, float64(size))
}

// CompoundRowColVectors 顺时针沿 上 -> 右 -> 下 -> 左 拼接边界的列号/行号
func CompoundRowColVectors(width, height int, xs, ys []float64) (cols, rows []float64) {
	n := 2*len(xs) + 2*len(ys)
	cols = make([]float64, 0, n)
	rows = make([]float64, 0, n)

	for _, x := range xs {
		cols = append(cols, x)
		rows = append(rows, 0)
	}
	for _, y := range ys {
		cols = append(cols, float64(width))
		rows = append(rows, y)
	}
	for i := len(xs) - 1; i >= 0; i-- {
		cols = append(cols, xs[i])
		rows = append(rows, float64(height))
	}
	for i := len(ys) - 1; i >= 0; i-- {
		cols = append(cols, 0)
		rows = append(rows, ys[i])
	}
	return cols, rows
}

// PixelLines 栅格边界的完整采样（列号、行号）
func PixelLines(width, height, n int) (cols, rows []float64) {
	return CompoundRowColVectors(width, height, RowColVector(width, n), RowColVector(height, n))
}

// Polygon 由边界经纬度构造闭合多边形
func Polygon(lon, lat []float64) (orb.Polygon, error) {
	if len(lon) == 0 || len(lon) != len(lat) {
		return nil, ErrLength
	}
	ring := make(orb.Ring, 0, len(lon)+1)
	for i := range lon {
		ring = append(ring, orb.Point{lon[i], lat[i]})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}, nil
}

// WKT 多边形的WKT表示
func WKT(poly orb.Polygon) string {
	return wkt.MarshalString(poly)
}

// PostGIS 形如 PolygonFromText('POLYGON((...))') 的字符串
func PostGIS(poly orb.Polygon) string {
	return "PolygonFromText('" + WKT(poly) + "')"
}

// Corners 边界框四个角 (minLon, minLat, maxLon, maxLat)
func Corners(lon, lat []float64) (orb.Bound, error) {
	if len(lon) == 0 || len(lon) != len(lat) {
		return orb.Bound{}, ErrLength
	}
	mp := make(orb.MultiPoint, len(lon))
	for i := range lon {
		mp[i] = orb.Point{lon[i], lat[i]}
	}
	return mp.Bound(), nil
}
