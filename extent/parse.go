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

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Spec 解析后的范围参数
//
// 一个 Spec 恰好包含一个范围选项（te 或 lle）和一个尺寸选项（ts 或 tr）。
// lle 经 ConvertLonLat 转换后会额外带上 te。Spec 创建后不可修改。
type Spec struct {
	bbox   Option
	size   Option
	values map[Option][]float64
}

// group 选项组：选项名 + 数值token
type group struct {
	name   string
	values []string
}

// Parse 解析范围字符串，例如 "-te 100 2000 300 10000 -tr 300 200"
func Parse(s string) (*Spec, error) {
	groups, err := scan(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(groups) != 2 {
		return nil, invalidf(OptionNone, "exactly 2 options are required (%d given)", len(groups))
	}

	spec := &Spec{values: make(map[Option][]float64, 3)}
	for _, g := range groups {
		opt, ok := LookupOption(g.name)
		if !ok {
			return nil, invalidf(OptionNone, "expected parameter is te, lle, ts, tr (%s given)", g.name)
		}

		switch {
		case opt.IsBBox():
			if spec.bbox != OptionNone {
				return nil, invalidf(opt, "only one of te, lle may be given (%s already set)", spec.bbox)
			}
			spec.bbox = opt
		case opt.IsSize():
			if spec.size != OptionNone {
				return nil, invalidf(opt, "only one of ts, tr may be given (%s already set)", spec.size)
			}
			spec.size = opt
		}

		vals, err := parseValues(opt, g.values)
		if err != nil {
			return nil, err
		}
		spec.values[opt] = vals
	}
	return spec, nil
}

// MustParse 同 Parse，出错时 panic
func MustParse(s string) *Spec {
	spec, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// scan 将输入切分为选项组
//
// 状态机：以 "-字母" 开头的token开启新组，其余token归入当前组。
// 因此 "-10"、"-.5" 等负数是数值而不是选项。
func scan(s string) ([]group, error) {
	var groups []group
	for _, tok := range strings.Fields(s) {
		if isOptionToken(tok) {
			groups = append(groups, group{name: tok[1:]})
			continue
		}
		if len(groups) == 0 {
			return nil, invalidf(OptionNone, "value %q given before any option", tok)
		}
		cur := &groups[len(groups)-1]
		cur.values = append(cur.values, tok)
	}
	return groups, nil
}

func isOptionToken(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	r := rune(tok[1])
	return unicode.IsLetter(r)
}

func parseValues(opt Option, toks []string) ([]float64, error) {
	vals := make([]float64, 0, len(toks))
	for _, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidf(opt, "input values must be int or float (%q given)", tok)
		}
		vals = append(vals, v)
	}
	if len(vals) != opt.Arity() {
		return nil, invalidf(opt, "%s requires exactly %d parameters (%d given)", opt, opt.Arity(), len(vals))
	}
	return vals, nil
}

// BBoxOption 范围选项（te 或 lle）
func (s *Spec) BBoxOption() Option { return s.bbox }

// SizeOption 尺寸选项（ts 或 tr）
func (s *Spec) SizeOption() Option { return s.size }

// Has 是否包含选项
func (s *Spec) Has(opt Option) bool {
	_, ok := s.values[opt]
	return ok
}

// Get 返回选项数值的副本
func (s *Spec) Get(opt Option) ([]float64, bool) {
	v, ok := s.values[opt]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Map 以 {"te": [...], "tr": [...]} 形式返回全部选项
func (s *Spec) Map() map[string][]float64 {
	out := make(map[string][]float64, len(s.values))
	for opt, v := range s.values {
		out[opt.String()] = append([]float64(nil), v...)
	}
	return out
}

// String 规范化的范围字符串，范围选项在前
func (s *Spec) String() string {
	var b strings.Builder
	for _, opt := range []Option{s.bbox, s.size} {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('-')
		b.WriteString(opt.String())
		for _, v := range s.values[opt] {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return b.String()
}

func (s *Spec) with(opt Option, vals []float64) *Spec {
	out := &Spec{bbox: s.bbox, size: s.size, values: make(map[Option][]float64, len(s.values)+1)}
	for k, v := range s.values {
		out.values[k] = v
	}
	out.values[opt] = vals
	return out
}
