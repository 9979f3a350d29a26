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

// Package geodesy estimates pixel sizes and grid azimuths on the sphere.
package geodesy

import (
	"errors"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrGridShape 经纬度网格为空或形状不一致
var ErrGridShape = errors.New("geodesy: lon/lat grids must be non-empty and of equal shape")

// PixelSize 以像素中心 p00 及其右侧 p10、下方 p01 的经纬度估算像素大小（米）
func PixelSize(p00, p10, p01 orb.Point) (dx, dy float64) {
	return geo.Distance(p00, p10), geo.Distance(p00, p01)
}

// Bearing 从 from 指向 to 的初始方位角，范围 [0, 360)
func Bearing(from, to orb.Point) float64 {
	b := math.Mod(geo.Bearing(from, to), 360)
	if b < 0 {
		b += 360
	}
	return b
}

// AzimuthY 网格中每个点指向上一行同列点的方位角（相对正北顺时针）
//
// 最后一行没有下一行，沿用倒数第二行的结果，使输出与输入形状相同。
func AzimuthY(lon, lat [][]float64) ([][]float64, error) {
	if err := checkShape(lon, lat); err != nil {
		return nil, err
	}
	rows := len(lon)
	if rows < 2 {
		return nil, ErrGridShape
	}

	out := make([][]float64, rows)
	for r := 0; r < rows-1; r++ {
		out[r] = make([]float64, len(lon[r]))
		for c := range lon[r] {
			from := orb.Point{lon[r+1][c], lat[r+1][c]}
			to := orb.Point{lon[r][c], lat[r][c]}
			out[r][c] = Bearing(from, to)
		}
	}
	out[rows-1] = append([]float64(nil), out[rows-2]...)
	return out, nil
}

// MinMax 网格经纬度的最小/最大值
func MinMax(lon, lat [][]float64) (minLat, maxLat, minLon, maxLon float64, err error) {
	if err = checkShape(lon, lat); err != nil {
		return
	}
	minLat, maxLat = math.Inf(1), math.Inf(-1)
	minLon, maxLon = math.Inf(1), math.Inf(-1)
	for r := range lon {
		for c := range lon[r] {
			if v := lat[r][c]; !math.IsNaN(v) {
				minLat, maxLat = math.Min(minLat, v), math.Max(maxLat, v)
			}
			if v := lon[r][c]; !math.IsNaN(v) {
				minLon, maxLon = math.Min(minLon, v), math.Max(maxLon, v)
			}
		}
	}
	return
}

// Median 忽略NaN的中位数，全部为NaN时返回NaN
func Median(v []float64) float64 {
	vals := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	slices.Sort(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

func checkShape(lon, lat [][]float64) error {
	if len(lon) == 0 || len(lon) != len(lat) {
		return ErrGridShape
	}
	for r := range lon {
		if len(lon[r]) == 0 || len(lon[r]) != len(lat[r]) || len(lon[r]) != len(lon[0]) {
			return ErrGridShape
		}
	}
	return nil
}
