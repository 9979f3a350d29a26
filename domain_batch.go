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

import (
	"context"
	"fmt"
	"sync"
)

// NewDomains 在GDAL工作池中并发创建多个Domain
//
// 任一失败时关闭已创建的Domain并返回第一个错误（按参数顺序）。
func NewDomains(ctx context.Context, params []Params) ([]*Domain, error) {
	out := make([]*Domain, len(params))
	errs := make([]error, len(params))
	pool := GetGDALPool()

	var wg sync.WaitGroup
	for i := range params {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = pool.ExecuteContext(ctx, func() error {
				d, err := New(params[i])
				out[i] = d
				return err
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		for _, d := range out {
			if d != nil {
				d.Close()
			}
		}
		name := params[i].Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		return nil, fmt.Errorf("domain %s: %w", name, err)
	}
	return out, nil
}
