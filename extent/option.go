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

// Package extent parses gdalwarp-style extent strings
// ("-te xmin ymin xmax ymax -tr xres yres") and derives the affine
// geotransform and raster size they describe.
package extent

// Option 范围选项
type Option int

const (
	OptionNone Option = iota
	TE                // -te xmin ymin xmax ymax
	LLE               // -lle lonmin latmin lonmax latmax
	TS                // -ts width height
	TR                // -tr xres yres
)

var optionNames = map[Option]string{
	TE:  "te",
	LLE: "lle",
	TS:  "ts",
	TR:  "tr",
}

func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return "none"
}

// Arity 选项需要的数值个数
func (o Option) Arity() int {
	switch o {
	case TE, LLE:
		return 4
	case TS, TR:
		return 2
	}
	return 0
}

// IsBBox 是否为范围类选项（te / lle）
func (o Option) IsBBox() bool { return o == TE || o == LLE }

// IsSize 是否为尺寸类选项（ts / tr）
func (o Option) IsSize() bool { return o == TS || o == TR }

// LookupOption 按名称查找选项，名称不含前导 "-"，区分大小写
func LookupOption(name string) (Option, bool) {
	for opt, n := range optionNames {
		if n == name {
			return opt, true
		}
	}
	return OptionNone, false
}
