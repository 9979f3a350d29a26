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

import "errors"

var (
	// ErrOptions 构造Domain的参数缺失或相互冲突
	ErrOptions = errors.New("godomain: invalid options")
	// ErrProjection 空间参考无法创建或坐标无法转换
	ErrProjection = errors.New("godomain: projection error")
	// ErrClosed Domain已关闭
	ErrClosed = errors.New("godomain: domain is closed")
)
