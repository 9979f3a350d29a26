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

package extent

import "fmt"

// PointTransformer 单点坐标转换（经纬度 -> 目标坐标系）
type PointTransformer interface {
	Transform(x, y float64) (float64, float64, error)
}

// PointTransformerFunc 函数适配器
type PointTransformerFunc func(x, y float64) (float64, float64, error)

func (f PointTransformerFunc) Transform(x, y float64) (float64, float64, error) { return f(x, y) }

// ConvertLonLat 将 lle 转换为目标坐标系下的 te
//
// 四个角点分别转换，再取X、Y各自的最小/最大值，投影后外包框不再与轴对齐时也成立。
// 返回新的 Spec，原 Spec 不变；不含 lle 时原样返回。
func ConvertLonLat(spec *Spec, t PointTransformer) (*Spec, error) {
	lle, ok := spec.values[LLE]
	if !ok {
		return spec, nil
	}
	corners := [4][2]float64{
		{lle[0], lle[3]},
		{lle[2], lle[3]},
		{lle[2], lle[1]},
		{lle[0], lle[1]},
	}

	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range corners {
		x, y, err := t.Transform(c[0], c[1])
		if err != nil {
			return nil, fmt.Errorf("transform corner (%g, %g): %w", c[0], c[1], err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	return spec.with(TE, []float64{minOf(xs), minOf(ys), maxOf(xs), maxOf(ys)}), nil
}
