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

// InvalidExtentError 范围字符串或范围参数不合法
type InvalidExtentError struct {
	Option string // 出错的选项（可能为空）
	Reason string
}

func (e *InvalidExtentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Option == "" {
		return "invalid extent: " + e.Reason
	}
	return fmt.Sprintf("invalid extent: -%s: %s", e.Option, e.Reason)
}

func invalidf(opt Option, format string, args ...any) *InvalidExtentError {
	name := ""
	if opt != OptionNone {
		name = opt.String()
	}
	return &InvalidExtentError{Option: name, Reason: fmt.Sprintf(format, args...)}
}
